package models

// Field identifies one input of the registration form.
type Field string

const (
	FieldFirstName  Field = "firstName"
	FieldLastName   Field = "lastName"
	FieldEmail      Field = "email"
	FieldRollNumber Field = "rollNumber"
	FieldGender     Field = "gender"
	FieldImage      Field = "image"
)

// TextFields lists the fields carried as plain strings, in form order.
var TextFields = []Field{FieldFirstName, FieldLastName, FieldEmail, FieldRollNumber, FieldGender}

// ParseField maps a wire name to a text Field. The image field is not a text field.
func ParseField(name string) (Field, bool) {
	for _, f := range TextFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Genders is the list offered by the gender select.
var Genders = []Gender{GenderMale, GenderFemale}

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Image is the optional photo attached to a draft. It is kept but never read downstream.
type Image struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"data,omitempty"`
}

// Draft holds the raw, unvalidated form values of one visitor.
type Draft struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	RollNumber string `json:"rollNumber"`
	Gender     Gender `json:"gender"`
	Image      *Image `json:"image,omitempty"`
}

// With returns a copy of d with field set to value. Values are stored as given.
// Unknown fields and FieldImage leave the draft unchanged.
func (d Draft) With(field Field, value string) Draft {
	switch field {
	case FieldFirstName:
		d.FirstName = value
	case FieldLastName:
		d.LastName = value
	case FieldEmail:
		d.Email = value
	case FieldRollNumber:
		d.RollNumber = value
	case FieldGender:
		d.Gender = Gender(value)
	}
	return d
}

// WithImage returns a copy of d carrying img. A nil img clears the photo.
func (d Draft) WithImage(img *Image) Draft {
	d.Image = img
	return d
}

// Value returns the current text of field.
func (d Draft) Value(field Field) string {
	switch field {
	case FieldFirstName:
		return d.FirstName
	case FieldLastName:
		return d.LastName
	case FieldEmail:
		return d.Email
	case FieldRollNumber:
		return d.RollNumber
	case FieldGender:
		return string(d.Gender)
	}
	return ""
}

// ValidationErrors maps a field to its message. A missing key means the field is valid.
type ValidationErrors map[Field]string

func (v ValidationErrors) OK() bool { return len(v) == 0 }
