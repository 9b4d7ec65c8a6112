package enums

import "fmt"

// AssessmentType classifies scheduled assessments.
type AssessmentType string

const (
	AssessmentTypeQuiz AssessmentType = "quiz"
	AssessmentTypeExam AssessmentType = "exam"
	AssessmentTypeLab  AssessmentType = "lab"
)

var validAssessmentTypes = []AssessmentType{
	AssessmentTypeQuiz,
	AssessmentTypeExam,
	AssessmentTypeLab,
}

// IsValid checks whether the given type matches the canonical enum.
func (a AssessmentType) IsValid() bool {
	for _, candidate := range validAssessmentTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAssessmentType converts raw strings into AssessmentType.
func ParseAssessmentType(value string) (AssessmentType, error) {
	for _, candidate := range validAssessmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid assessment type %q", value)
}
