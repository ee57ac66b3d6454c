package services

import (
	"strings"
	"text/template"
)

const (
	assistantSystem = "You are a helpful farming assistant with expertise in Nigerian agriculture."
	farmSystem      = "You are an expert agricultural analyst specializing in Nigerian farming conditions. Provide detailed, structured, and practical advice based on the farm data provided."
	soilSystem      = "You are an expert soil scientist specializing in Nigerian agricultural soils. Provide detailed, structured, and practical advice based on the soil data provided."
	cropSystem      = "You are an expert agricultural analyst specializing in Nigerian crops and plants. Provide detailed, structured, and practical information based on the crop image described."
)

var farmTemplate = template.Must(template.New("farm").Parse(`Analyze the following farm data and provide detailed recommendations:

Farm Size: {{.FarmSize}} hectares
Soil Type: {{.SoilType}}
Humidity: {{.Humidity}}%
Moisture: {{.Moisture}}%
Temperature: {{.Temperature}}°C
Location: {{.Location}}, Nigeria
Additional Information: {{or .AdditionalInfo "None provided"}}

Please provide a comprehensive analysis including:
1. Suitable crops for this environment
2. Recommended farming techniques
3. Potential challenges and solutions
4. Irrigation recommendations
5. Fertilizer recommendations
6. Seasonal considerations
`))

var soilTemplate = template.Must(template.New("soil").Parse(`Analyze the following soil data and provide detailed recommendations:

Soil Type: {{.SoilType}}
pH Level: {{.PH}}
Organic Matter: {{.OrganicMatter}}%
Nitrogen Content: {{.Nitrogen}} mg/kg
Phosphorus Content: {{.Phosphorus}} mg/kg
Potassium Content: {{.Potassium}} mg/kg
Location: {{.Location}}, Nigeria
Additional Information: {{or .AdditionalInfo "None provided"}}

Please provide a comprehensive analysis including:
1. Soil quality assessment
2. Suitable crops for this soil type
3. Fertilizer recommendations
4. Soil improvement strategies
5. Potential issues and solutions
6. Long-term soil management advice
`))

var cropTemplate = template.Must(template.New("crop").Parse(`Analyze the following crop/plant image and provide detailed information:

The image shows: {{.}}

Please provide a comprehensive analysis including:
1. Identification of the crop/plant
2. Nutritional value
3. Growing conditions and methods
4. Potential diseases and pest control
5. Harvesting and storage recommendations
6. Market value and economic importance in Nigeria
`))

// assistantSystemPrompt appends a reply-language instruction unless the
// language is English.
func assistantSystemPrompt(language string) string {
	language = strings.TrimSpace(language)
	if language == "" || strings.EqualFold(language, "english") {
		return assistantSystem
	}
	return assistantSystem + " Please respond in " + language + "."
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
