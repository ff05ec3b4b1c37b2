package dto

type ToggleReactionRequest struct {
	Kind string `json:"kind" binding:"required,oneof=like celebrate insightful curious"`
}
