package snippet

import (
	"strings"
	"text/template"
)

// Card is the basic content card: a title and a paragraph on a colored
// panel.
type Card struct {
	Title      string `json:"title" yaml:"title" validate:"required"`
	Text       string `json:"text" yaml:"text" validate:"required"`
	Background string `json:"background" yaml:"background"`
	Shape      string `json:"shape" yaml:"shape"`
	Animation  string `json:"animation" yaml:"animation"`
}

func DefaultCard() Card {
	return Card{
		Title:      "Card Title",
		Text:       "This is a card with some description.",
		Background: "#A9D0F5",
		Shape:      "Rounded",
		Animation:  "None",
	}
}

var cardTmpl = template.Must(template.New("card").Parse(`
        {{.Style}}
        <div style="
            background-color: {{.Background}};
            padding: 20px;
            border-radius: {{.Radius}};
            width: 300px;
            box-shadow: 0px 4px 8px rgba(0, 0, 0, 0.1);
            text-align: center;
            animation: {{.Animation}} 1s ease;
        ">
            <h3>{{.Title}}</h3>
            <p>{{.Text}}</p>
        </div>
    `))

func (c *Card) MeasureName() string { return "Card Measure" }

func (c *Card) HTML() (string, error) {
	radius := "0px"
	if c.Shape == "Rounded" {
		radius = "10px"
	}
	return render(cardTmpl, map[string]any{
		"Style":      styleBlock(c.Animation),
		"Background": c.Background,
		"Radius":     radius,
		"Animation":  AnimationName(c.Animation),
		"Title":      c.Title,
		"Text":       c.Text,
	})
}

// StyledCard is the card with full layout control. Border and Shadow are
// only emitted when set.
type StyledCard struct {
	Title       string `json:"title" yaml:"title" validate:"required"`
	Text        string `json:"text" yaml:"text" validate:"required"`
	Background  string `json:"background" yaml:"background"`
	Shape       string `json:"shape" yaml:"shape" validate:"omitempty,oneof=Rounded Square Circle"`
	Width       int    `json:"width" yaml:"width" validate:"gte=0"`
	Height      int    `json:"height" yaml:"height" validate:"gte=0"`
	Padding     int    `json:"padding" yaml:"padding" validate:"gte=0"`
	Margin      int    `json:"margin" yaml:"margin" validate:"gte=0"`
	Font        string `json:"font" yaml:"font"`
	Align       string `json:"align" yaml:"align"`
	TitleSize   int    `json:"title_size" yaml:"title_size" validate:"gte=0"`
	TextSize    int    `json:"text_size" yaml:"text_size" validate:"gte=0"`
	TitleColor  string `json:"title_color" yaml:"title_color"`
	TextColor   string `json:"text_color" yaml:"text_color"`
	Border      string `json:"border" yaml:"border"`
	BorderColor string `json:"border_color" yaml:"border_color"`
	Shadow      bool   `json:"shadow" yaml:"shadow"`
	Animation   string `json:"animation" yaml:"animation"`
}

func DefaultStyledCard() StyledCard {
	return StyledCard{
		Title:       "Card Title",
		Text:        "This is a card with some description.",
		Background:  "#A9D0F5",
		Shape:       "Rounded",
		Width:       300,
		Height:      200,
		Padding:     20,
		Margin:      10,
		Font:        "Arial",
		Align:       "Center",
		TitleSize:   24,
		TextSize:    16,
		TitleColor:  "#000000",
		TextColor:   "#333333",
		Border:      "None",
		BorderColor: "#000000",
		Animation:   "None",
	}
}

var styledCardTmpl = template.Must(template.New("styled-card").Parse(`
        {{.Style}}
        <div style="
            background-color: {{.C.Background}};
            padding: {{.C.Padding}}px;
            margin: {{.C.Margin}}px;
            border-radius: {{.Radius}};
            width: {{.C.Width}}px;
            height: {{.C.Height}}px;
            text-align: {{.Align}};
            animation: {{.Animation}} 1s ease;
            font-family: {{.C.Font}};
{{- if .Border}}
            border: 1px {{.Border}} {{.C.BorderColor}};
{{- end}}
{{- if .C.Shadow}}
            box-shadow: 0px 4px 8px rgba(0, 0, 0, 0.1);
{{- end}}
            display: flex;
            justify-content: center;
            align-items: center;
        ">
            <div>
                <h3 style="font-size: {{.C.TitleSize}}px; color: {{.C.TitleColor}};">{{.C.Title}}</h3>
                <p style="font-size: {{.C.TextSize}}px; color: {{.C.TextColor}};">{{.C.Text}}</p>
            </div>
        </div>
    `))

func (c *StyledCard) MeasureName() string { return "Card Measure" }

func (c *StyledCard) HTML() (string, error) {
	var radius string
	switch c.Shape {
	case "Rounded":
		radius = "10px"
	case "Circle":
		radius = "50%"
	default:
		radius = "0px"
	}
	border := ""
	if c.Border != "" && c.Border != "None" {
		border = strings.ToLower(c.Border)
	}
	return render(styledCardTmpl, map[string]any{
		"C":         c,
		"Style":     styleBlock(c.Animation),
		"Radius":    radius,
		"Align":     strings.ToLower(c.Align),
		"Animation": AnimationName(c.Animation),
		"Border":    border,
	})
}
