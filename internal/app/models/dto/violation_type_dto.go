package dto

import "github.com/osahq/conduct/internal/app/models"

// CreateViolationTypeRequest represents data for adding a handbook entry
type CreateViolationTypeRequest struct {
	Code            string `json:"code" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Category        string `json:"category" binding:"required"`
	DefaultSeverity string `json:"defaultSeverity" binding:"required,oneof=minor major"`
	Description     string `json:"description,omitempty"`
	Penalty         string `json:"penalty,omitempty"`
}

// UpdateViolationTypeRequest represents handbook entry update data
type UpdateViolationTypeRequest struct {
	Name            string `json:"name" binding:"required"`
	Category        string `json:"category" binding:"required"`
	DefaultSeverity string `json:"defaultSeverity" binding:"required,oneof=minor major"`
	Description     string `json:"description,omitempty"`
	Penalty         string `json:"penalty,omitempty"`
	IsActive        *bool  `json:"isActive,omitempty"`
}

// ViolationTypeResponse represents a handbook catalog entry
type ViolationTypeResponse struct {
	ID              int64  `json:"id"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	DefaultSeverity string `json:"defaultSeverity"`
	Description     string `json:"description,omitempty"`
	Penalty         string `json:"penalty,omitempty"`
	IsActive        bool   `json:"isActive"`
}

// ViolationTypeListResponse represents a list of handbook entries
type ViolationTypeListResponse struct {
	ViolationTypes []ViolationTypeResponse `json:"violationTypes"`
}

// FromViolationType converts a models.ViolationType to a ViolationTypeResponse
func FromViolationType(vt *models.ViolationType) ViolationTypeResponse {
	if vt == nil {
		return ViolationTypeResponse{}
	}
	return ViolationTypeResponse{
		ID:              vt.ID,
		Code:            vt.Code,
		Name:            vt.Name,
		Category:        vt.Category,
		DefaultSeverity: string(vt.DefaultSeverity),
		Description:     vt.Description,
		Penalty:         vt.Penalty,
		IsActive:        vt.IsActive,
	}
}
