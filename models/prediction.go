package models

// Makes are the vehicle makes the price model was trained on.
var Makes = []string{"toyota", "honda"}

// CarModels are the model names offered by the prediction form.
var CarModels = []string{
	"Prius", "Highlander", "Civic", "Accord", "Corolla", "Ridgeline",
	"Odyssey", "CR-V", "Pilot", "Camry Solara", "Matrix", "RAV4",
	"Rav4", "HR-V", "Fit", "Yaris", "Yaris iA", "Tacoma", "Camry",
	"Avalon", "Venza", "Sienna", "Passport", "Accord Crosstour",
	"Crosstour", "Element", "Tundra", "Sequoia", "Corolla Hatchback",
	"4Runner", "Echo", "Tercel", "MR2 Spyder", "FJ Cruiser",
	"Corolla iM", "C-HR", "Civic Hatchback", "86", "S2000", "Supra",
	"Insight", "Clarity", "CR-Z", "Prius Prime", "Prius Plug-In",
	"Prius c", "Prius C", "Prius v",
}

// Provinces are the province codes offered by the prediction form.
var Provinces = []string{
	"NB", "QC", "BC", "ON", "AB", "MB", "SK", "NS", "PE", "NL", "YT", "NC", "OH", "SC",
}

// PredictionRequest carries the six features of one price estimate.
type PredictionRequest struct {
	Miles      float64 `json:"miles" form:"miles" binding:"gte=0"`
	Year       int     `json:"year" form:"year" binding:"gte=1886"`
	Make       string  `json:"make" form:"make" binding:"required"`
	Model      string  `json:"model" form:"model" binding:"required"`
	EngineSize float64 `json:"engine_size" form:"engine_size" binding:"gte=0.9"`
	Province   string  `json:"province" form:"province" binding:"required"`
}

// DefaultPredictionRequest returns the values the form starts with.
func DefaultPredictionRequest() PredictionRequest {
	return PredictionRequest{
		Miles:      86132.0,
		Year:       2001,
		Make:       "toyota",
		Model:      "Prius",
		EngineSize: 1.5,
		Province:   "NB",
	}
}

// Features returns the ordered feature vector passed to the model.
// Categorical values stay raw strings; encoding belongs to the model.
func (r PredictionRequest) Features() []any {
	return []any{r.Miles, r.Year, r.Make, r.Model, r.EngineSize, r.Province}
}
