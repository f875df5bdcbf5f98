package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Nombres de columna BRFSS que el perfil sabe aportar al encoder.
const (
	ColumnHighBP               = "HighBP"
	ColumnHighChol             = "HighChol"
	ColumnCholCheck            = "CholCheck"
	ColumnBMI                  = "BMI"
	ColumnSmoker               = "Smoker"
	ColumnStroke               = "Stroke"
	ColumnHeartDiseaseorAttack = "HeartDiseaseorAttack"
	ColumnPhysActivity         = "PhysActivity"
	ColumnFruits               = "Fruits"
	ColumnVeggies              = "Veggies"
	ColumnHvyAlcoholConsump    = "HvyAlcoholConsump"
	ColumnAnyHealthcare        = "AnyHealthcare"
	ColumnNoDocbcCost          = "NoDocbcCost"
	ColumnGenHlth              = "GenHlth"
	ColumnMentHlth             = "MentHlth"
	ColumnPhysHlth             = "PhysHlth"
	ColumnDiffWalk             = "DiffWalk"
	ColumnSex                  = "Sex"
	ColumnAge                  = "Age"
	ColumnEducation            = "Education"
	ColumnIncome               = "Income"

	// ColumnDiabetes es la etiqueta del dataset, nunca una feature.
	ColumnDiabetes = "Diabetes"
)

// Flag es una respuesta si/no codificada como 0/1.
type Flag int

const (
	No  Flag = 0
	Yes Flag = 1
)

// UnmarshalJSON acepta 0/1, true/false y las etiquetas "yes"/"no" o "ya"/"tidak".
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "0", "false":
		*f = No
		return nil
	case "1", "true":
		*f = Yes
		return nil
	}
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("flag must be 0/1, boolean or yes/no, got %s", string(data))
	}
	v, err := ParseFlag(label)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseFlag traduce una etiqueta de formulario a Flag.
func ParseFlag(label string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "1", "yes", "y", "ya", "true":
		return Yes, nil
	case "0", "no", "n", "tidak", "false":
		return No, nil
	}
	return No, fmt.Errorf("unknown yes/no label %q", label)
}

// Sex sigue la codificacion BRFSS: 0 = mujer, 1 = hombre.
type Sex int

const (
	Female Sex = 0
	Male   Sex = 1
)

func (s *Sex) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "0":
		*s = Female
		return nil
	case "1":
		*s = Male
		return nil
	}
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return fmt.Errorf("sex must be 0 (female), 1 (male) or a label, got %s", string(data))
	}
	v, err := ParseSex(label)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func ParseSex(label string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "0", "female", "f", "wanita":
		return Female, nil
	case "1", "male", "m", "pria":
		return Male, nil
	}
	return Female, fmt.Errorf("unknown sex label %q", label)
}

// RawHealthProfile es lo que el usuario envia en una evaluacion.
// Todos los campos son punteros: la presencia la decide el schema activo.
type RawHealthProfile struct {
	BMI         *float64 `json:"bmi,omitempty"`
	AgeYears    *int     `json:"age_years,omitempty"`
	AgeCategory *int     `json:"age_category,omitempty"`

	HighBP               *Flag `json:"high_bp,omitempty"`
	HighChol             *Flag `json:"high_chol,omitempty"`
	CholCheck            *Flag `json:"chol_check,omitempty"`
	Smoker               *Flag `json:"smoker,omitempty"`
	Stroke               *Flag `json:"stroke,omitempty"`
	HeartDiseaseorAttack *Flag `json:"heart_disease_or_attack,omitempty"`
	PhysActivity         *Flag `json:"phys_activity,omitempty"`
	Fruits               *Flag `json:"fruits,omitempty"`
	Veggies              *Flag `json:"veggies,omitempty"`
	HvyAlcoholConsump    *Flag `json:"hvy_alcohol_consump,omitempty"`
	AnyHealthcare        *Flag `json:"any_healthcare,omitempty"`
	NoDocbcCost          *Flag `json:"no_doc_bc_cost,omitempty"`
	DiffWalk             *Flag `json:"diff_walk,omitempty"`

	GenHlth  *int `json:"gen_hlth,omitempty"`
	MentHlth *int `json:"ment_hlth,omitempty"`
	PhysHlth *int `json:"phys_hlth,omitempty"`

	Sex       *Sex `json:"sex,omitempty"`
	Education *int `json:"education,omitempty"`
	Income    *int `json:"income,omitempty"`
}

// ProfileAttributes lista las columnas que un RawHealthProfile puede aportar.
var ProfileAttributes = []string{
	ColumnHighBP, ColumnHighChol, ColumnCholCheck, ColumnBMI, ColumnSmoker,
	ColumnStroke, ColumnHeartDiseaseorAttack, ColumnPhysActivity, ColumnFruits,
	ColumnVeggies, ColumnHvyAlcoholConsump, ColumnAnyHealthcare, ColumnNoDocbcCost,
	ColumnGenHlth, ColumnMentHlth, ColumnPhysHlth, ColumnDiffWalk, ColumnSex,
	ColumnAge, ColumnEducation, ColumnIncome,
}

// IsProfileAttribute indica si una columna del schema tiene campo en el perfil.
func IsProfileAttribute(column string) bool {
	for _, a := range ProfileAttributes {
		if a == column {
			return true
		}
	}
	return false
}

// Attribute devuelve el valor crudo de una columna y si estaba presente.
// Age devuelve la categoria solo si vino ya bandeada; la conversion de
// anos la hace el encoder.
func (p RawHealthProfile) Attribute(column string) (float64, bool) {
	switch column {
	case ColumnBMI:
		return floatPtr(p.BMI)
	case ColumnAge:
		return intPtr(p.AgeCategory)
	case ColumnHighBP:
		return flagPtr(p.HighBP)
	case ColumnHighChol:
		return flagPtr(p.HighChol)
	case ColumnCholCheck:
		return flagPtr(p.CholCheck)
	case ColumnSmoker:
		return flagPtr(p.Smoker)
	case ColumnStroke:
		return flagPtr(p.Stroke)
	case ColumnHeartDiseaseorAttack:
		return flagPtr(p.HeartDiseaseorAttack)
	case ColumnPhysActivity:
		return flagPtr(p.PhysActivity)
	case ColumnFruits:
		return flagPtr(p.Fruits)
	case ColumnVeggies:
		return flagPtr(p.Veggies)
	case ColumnHvyAlcoholConsump:
		return flagPtr(p.HvyAlcoholConsump)
	case ColumnAnyHealthcare:
		return flagPtr(p.AnyHealthcare)
	case ColumnNoDocbcCost:
		return flagPtr(p.NoDocbcCost)
	case ColumnDiffWalk:
		return flagPtr(p.DiffWalk)
	case ColumnGenHlth:
		return intPtr(p.GenHlth)
	case ColumnMentHlth:
		return intPtr(p.MentHlth)
	case ColumnPhysHlth:
		return intPtr(p.PhysHlth)
	case ColumnSex:
		if p.Sex == nil {
			return 0, false
		}
		return float64(*p.Sex), true
	case ColumnEducation:
		return intPtr(p.Education)
	case ColumnIncome:
		return intPtr(p.Income)
	}
	return 0, false
}

// ProfileFromRecord arma un perfil a partir de una fila del dataset
// (columna BRFSS -> valor). Las columnas desconocidas se ignoran.
func ProfileFromRecord(record map[string]float64) RawHealthProfile {
	var p RawHealthProfile
	for column, v := range record {
		value := v
		iv := int(v)
		flag := Flag(iv)
		switch column {
		case ColumnBMI:
			p.BMI = &value
		case ColumnAge:
			p.AgeCategory = &iv
		case ColumnHighBP:
			p.HighBP = &flag
		case ColumnHighChol:
			p.HighChol = &flag
		case ColumnCholCheck:
			p.CholCheck = &flag
		case ColumnSmoker:
			p.Smoker = &flag
		case ColumnStroke:
			p.Stroke = &flag
		case ColumnHeartDiseaseorAttack:
			p.HeartDiseaseorAttack = &flag
		case ColumnPhysActivity:
			p.PhysActivity = &flag
		case ColumnFruits:
			p.Fruits = &flag
		case ColumnVeggies:
			p.Veggies = &flag
		case ColumnHvyAlcoholConsump:
			p.HvyAlcoholConsump = &flag
		case ColumnAnyHealthcare:
			p.AnyHealthcare = &flag
		case ColumnNoDocbcCost:
			p.NoDocbcCost = &flag
		case ColumnDiffWalk:
			p.DiffWalk = &flag
		case ColumnGenHlth:
			p.GenHlth = &iv
		case ColumnMentHlth:
			p.MentHlth = &iv
		case ColumnPhysHlth:
			p.PhysHlth = &iv
		case ColumnSex:
			sex := Sex(iv)
			p.Sex = &sex
		case ColumnEducation:
			p.Education = &iv
		case ColumnIncome:
			p.Income = &iv
		}
	}
	return p
}

func floatPtr(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func intPtr(v *int) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}

func flagPtr(v *Flag) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}
