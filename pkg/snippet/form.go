package snippet

import "text/template"

// Form renders a titled form with one text input per field and a submit
// button.
type Form struct {
	Name   string   `json:"name" yaml:"name" validate:"required"`
	Fields []string `json:"fields" yaml:"fields" validate:"required,min=1"`
}

func DefaultForm() Form {
	return Form{Name: "Contact Us", Fields: []string{"Name", "Email"}}
}

var formTmpl = template.Must(template.New("form").Parse(`
        <form>
            <h3>{{.Name}}</h3>
            {{range .Fields}}<input type='text' placeholder='Enter {{.}}' style='padding: 10px; width: 100%; margin-bottom: 10px; border-radius: 5px; border: 1px solid #ccc;'/>{{end}}
            <button type="submit" style="background-color: #4CAF50; color: white; padding: 10px 20px; border: none; border-radius: 5px;">Submit</button>
        </form>
    `))

func (f *Form) MeasureName() string { return "Form Measure" }

func (f *Form) HTML() (string, error) { return render(formTmpl, f) }
