package httpgin

type CheckoutRequest struct {
	CardNumber string `json:"card_number" binding:"required"`
	CardExpiry string `json:"card_expiry" binding:"required"`
	CardCVV    string `json:"card_cvv" binding:"required"`
	CardName   string `json:"card_name" binding:"required"`
}

type PlanInput struct {
	Name     string `json:"name" binding:"required"`
	Duration string `json:"duration" binding:"required"`
	Price    string `json:"price" binding:"required"`
	Features string `json:"features"`
	Popular  bool   `json:"popular"`
}

type CreateGymRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Address     string      `json:"address" binding:"required"`
	City        string      `json:"city" binding:"required"`
	Latitude    float64     `json:"latitude" binding:"required"`
	Longitude   float64     `json:"longitude" binding:"required"`
	Phone       string      `json:"phone"`
	Email       string      `json:"email"`
	OpensAt     string      `json:"opens_at"`
	ClosesAt    string      `json:"closes_at"`
	Plans       []PlanInput `json:"plans" binding:"required,min=1,dive"`
}

type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	City      string  `json:"city"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type CreateGymResponse struct {
	GymID int64 `json:"gym_id"`
}

type CreatePlanResponse struct {
	PlanID int64 `json:"plan_id"`
}
