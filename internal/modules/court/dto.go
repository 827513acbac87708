package court

type CreateSportCenterRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
}

type CreateCourtRequest struct {
	SportCenterID           int64   `json:"sport_center_id" binding:"required"`
	SportID                 int64   `json:"sport_id" binding:"required"`
	Name                    string  `json:"name" binding:"required"`
	SlotDurationMinutes     int     `json:"slot_duration_minutes"`
	CourtType               string  `json:"court_type"`
	MinDepositPercentage    float64 `json:"min_deposit_percentage"`
	CancellationWindowHours float64 `json:"cancellation_window_hours"`
	RefundPercentage        float64 `json:"refund_percentage"`
}

type CreateScheduleRequest struct {
	DaysOfWeek string  `json:"days_of_week" binding:"required"` // "1,3,5"
	StartTime  string  `json:"start_time" binding:"required"`   // "15:04"
	EndTime    string  `json:"end_time" binding:"required"`
	PriceSlot  float64 `json:"price_slot"`
}

type CreatePromotionRequest struct {
	Description   string  `json:"description"`
	DiscountType  string  `json:"discount_type" binding:"required"`
	DiscountValue float64 `json:"discount_value" binding:"required"`
	ValidFrom     string  `json:"valid_from" binding:"required"` // "2006-01-02"
	ValidTo       string  `json:"valid_to" binding:"required"`
}
