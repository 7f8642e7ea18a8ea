package snippet

import (
	"fmt"
	"text/template"
)

// Button styles a single call-to-action button.
type Button struct {
	Text       string `json:"text" yaml:"text" validate:"required"`
	Color      string `json:"color" yaml:"color"`
	HoverColor string `json:"hover_color" yaml:"hover_color"`
	Size       string `json:"size" yaml:"size" validate:"omitempty,oneof=Small Medium Large"`
	Shape      string `json:"shape" yaml:"shape"`
	Animation  string `json:"animation" yaml:"animation"`
}

func DefaultButton() Button {
	return Button{
		Text:       "Click Me",
		Color:      "#FF5733",
		HoverColor: "#FFC300",
		Size:       "Small",
		Shape:      "Rounded",
		Animation:  "None",
	}
}

var fontSizes = map[string]int{"Small": 20, "Medium": 30, "Large": 40}

var buttonTmpl = template.Must(template.New("button").Parse(`
        {{.Style}}
        <button style="
            background-color: {{.Color}};
            font-size: {{.FontSize}}px;
            color: white;
            border: none;
            padding: 10px 20px;
            border-radius: {{.Radius}};
            cursor: pointer;
            transition: background-color 0.3s ease;
            animation: {{.Animation}} 1s infinite;
        " onmouseover="this.style.backgroundColor='{{.Hover}}'" 
           onmouseout="this.style.backgroundColor='{{.Color}}'">
            {{.Text}}
        </button>
    `))

func (b *Button) MeasureName() string { return "Button Measure" }

func (b *Button) HTML() (string, error) {
	size, ok := fontSizes[b.Size]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSize, b.Size)
	}
	radius := "0px"
	if b.Shape == "Rounded" {
		radius = "50px"
	}
	return render(buttonTmpl, map[string]any{
		"Style":     styleBlock(b.Animation),
		"Color":     b.Color,
		"Hover":     b.HoverColor,
		"FontSize":  size,
		"Radius":    radius,
		"Animation": AnimationName(b.Animation),
		"Text":      b.Text,
	})
}
