package identity

// Lines is an ordered OCR line corpus for one side of a document.
// A nil back corpus means the back side was not provided.
type Lines []string

// FrontFields holds the attributes read from the front of an identity document.
// A nil field means the value could not be located.
type FrontFields struct {
	IDNumber       *string `json:"id_number,omitempty"`
	Surnames       *string `json:"surnames,omitempty"`
	Names          *string `json:"names,omitempty"`
	Nationality    *string `json:"nationality,omitempty"`
	BirthDate      *string `json:"birth_date,omitempty"`
	BirthPlace     *string `json:"birth_place,omitempty"`
	Sex            *string `json:"sex,omitempty"`
	CivilStatus    *string `json:"civil_status,omitempty"`
	Spouse         *string `json:"spouse,omitempty"`
	ExpirationDate *string `json:"expiration_date,omitempty"`
}

// BackFields holds the attributes read from the back of an identity document.
type BackFields struct {
	FatherName      *string `json:"father_name,omitempty"`
	MotherName      *string `json:"mother_name,omitempty"`
	CivilStatus     *string `json:"civil_status,omitempty"`
	Profession      *string `json:"profession,omitempty"`
	Education       *string `json:"education,omitempty"`
	IssueDate       *string `json:"issue_date,omitempty"`
	IssuePlace      *string `json:"issue_place,omitempty"`
	ExpirationDate  *string `json:"expiration_date,omitempty"`
	FingerprintCode *string `json:"fingerprint_code,omitempty"`
	BloodType       *string `json:"blood_type,omitempty"`
	DonorStatus     *string `json:"donor_status,omitempty"`
	MRZ             *string `json:"mrz,omitempty"`
}

// Field converts a search outcome into an optional field value.
func Field(value string, ok bool) *string {
	if !ok {
		return nil
	}
	return &value
}

// Const returns an always-present field value.
func Const(value string) *string {
	return &value
}

// Value dereferences an optional field, returning "" when it is absent.
func Value(field *string) string {
	if field == nil {
		return ""
	}
	return *field
}

// IsEmpty reports whether a field carries no usable value.
func IsEmpty(field *string) bool {
	return field == nil || *field == ""
}
