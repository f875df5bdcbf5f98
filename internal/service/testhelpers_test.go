package service

import (
	"testing"

	"diabetes-risk/internal/domain"
)

const schemaFilePath = "../../configs/feature_schemas.yaml"

func loadTestSchema(t *testing.T, name string) domain.FeatureSchema {
	t.Helper()
	reg, err := LoadSchemaFile(schemaFilePath)
	if err != nil {
		t.Fatalf("load schema file: %v", err)
	}
	schema, err := reg.Get(name)
	if err != nil {
		t.Fatalf("get schema %s: %v", name, err)
	}
	return schema
}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }
func flag(v int) *domain.Flag {
	f := domain.Flag(v)
	return &f
}
func sexp(v domain.Sex) *domain.Sex { return &v }

// reducedProfile es el escenario tipico: 45 anos, BMI 32, HTA y colesterol, activo.
func reducedProfile() domain.RawHealthProfile {
	return domain.RawHealthProfile{
		BMI:                  f64(32.0),
		AgeYears:             intp(45),
		HighBP:               flag(1),
		HighChol:             flag(1),
		Smoker:               flag(0),
		PhysActivity:         flag(1),
		HeartDiseaseorAttack: flag(0),
	}
}

func fullProfile() domain.RawHealthProfile {
	p := reducedProfile()
	p.CholCheck = flag(1)
	p.Stroke = flag(0)
	p.Fruits = flag(1)
	p.Veggies = flag(1)
	p.HvyAlcoholConsump = flag(0)
	p.AnyHealthcare = flag(1)
	p.NoDocbcCost = flag(0)
	p.GenHlth = intp(3)
	p.MentHlth = intp(2)
	p.PhysHlth = intp(0)
	p.DiffWalk = flag(0)
	p.Sex = sexp(domain.Male)
	return p
}
