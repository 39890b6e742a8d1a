package models

import "time"

// AIModel represents a model reachable through the AI capability
type AIModel struct {
	ID          int       `json:"id"`
	CompanyName string    `json:"company_name"`
	ModelName   string    `json:"model_name"`
	Remark      *string   `json:"remark,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateAIModelRequest represents a request to create an AI model
type CreateAIModelRequest struct {
	CompanyName string  `json:"company_name"`
	ModelName   string  `json:"model_name"`
	Remark      *string `json:"remark,omitempty"`
}

// UpdateAIModelRequest represents a request to update an AI model
type UpdateAIModelRequest struct {
	CompanyName *string `json:"company_name,omitempty"`
	ModelName   *string `json:"model_name,omitempty"`
	Remark      *string `json:"remark,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}
