package dto

type AdvisorRequest struct {
	Message string `json:"message" validate:"required"`
}

type AdvisorResponse struct {
	Reply string `json:"reply"`
}
