// Package patient defines the dashboard form input and the feature vector
// it maps to.
package patient

// Feature names in the order the classifier expects them.
var FeatureNames = []string{"FBS", "BMI", "Age", "WC", "HC"}

// Options offered by the form selects. The first entry is the default.
var (
	SexOptions      = []string{"Male", "Female"}
	YesNoOptions    = []string{"Yes", "No"}
	ActivityOptions = []string{"Low", "Moderate", "High"}
)

// Input is one submission of the patient form. Only the five numeric
// fields are model features; the rest are echoed back for display.
type Input struct {
	FBS           float64 `form:"fbs" binding:"required,gte=50,lte=300"`
	BMI           float64 `form:"bmi" binding:"required,gte=15,lte=50"`
	Age           int     `form:"age" binding:"required,gte=18,lte=100"`
	WaistCM       float64 `form:"wc" binding:"required,gte=50,lte=150"`
	HipCM         float64 `form:"hc" binding:"required,gte=70,lte=150"`
	Sex           string  `form:"sex" binding:"required,oneof=Male Female"`
	Smoking       string  `form:"smoking" binding:"required,oneof=Yes No"`
	Alcohol       string  `form:"alcohol" binding:"required,oneof=Yes No"`
	Activity      string  `form:"activity" binding:"required,oneof=Low Moderate High"`
	FamilyHistory string  `form:"family_history" binding:"required,oneof=Yes No"`
}

// Defaults returns the values the form starts with.
func Defaults() Input {
	return Input{
		FBS:           100.0,
		BMI:           25.0,
		Age:           50,
		WaistCM:       90.0,
		HipCM:         100.0,
		Sex:           SexOptions[0],
		Smoking:       YesNoOptions[0],
		Alcohol:       YesNoOptions[0],
		Activity:      ActivityOptions[0],
		FamilyHistory: YesNoOptions[0],
	}
}

// Features returns the model feature vector [fbs, bmi, age, wc, hc].
func (in Input) Features() []float64 {
	return []float64{in.FBS, in.BMI, float64(in.Age), in.WaistCM, in.HipCM}
}

// LifestyleItem is one display-only attribute.
type LifestyleItem struct {
	Label string
	Value string
}

// Lifestyle returns the attributes that are not used by the model.
func (in Input) Lifestyle() []LifestyleItem {
	return []LifestyleItem{
		{Label: "Sex", Value: in.Sex},
		{Label: "Tobacco Smoking", Value: in.Smoking},
		{Label: "Alcohol Consumption", Value: in.Alcohol},
		{Label: "Physical Activity", Value: in.Activity},
		{Label: "Family History of Diabetes", Value: in.FamilyHistory},
	}
}
