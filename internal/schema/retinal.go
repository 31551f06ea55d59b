package schema

import (
	"sync"

	"github.com/rd-risk-mcp-server/internal/domain"
)

// Question ids of the retinal detachment questionnaire.
const (
	Age              domain.QuestionID = "age"
	Sex              domain.QuestionID = "sex"
	PriorRD          domain.QuestionID = "prior_rd"
	CataractSurgery  domain.QuestionID = "cataract_surgery"
	YAGCapsulotomy   domain.QuestionID = "yag_capsulotomy"
	Myopia           domain.QuestionID = "myopia"
	MyopiaLevel      domain.QuestionID = "myopia_level"
	RetinalCondition domain.QuestionID = "retinal_condition"
	EyeTrauma        domain.QuestionID = "eye_trauma"
	Diabetes         domain.QuestionID = "diabetes"
	FamilyHistory    domain.QuestionID = "family_history"
	Floaters         domain.QuestionID = "floaters"
	FloatersOnset    domain.QuestionID = "floaters_onset"
	Flashes          domain.QuestionID = "flashes"
	FlashesOnset     domain.QuestionID = "flashes_onset"
	Shadow           domain.QuestionID = "shadow"
	ShadowOnset      domain.QuestionID = "shadow_onset"
	VisionDecrease   domain.QuestionID = "vision_decrease"
	VisionOnset      domain.QuestionID = "vision_onset"
	PainDoubleVision domain.QuestionID = "pain_double_vision"
	VisionLevel      domain.QuestionID = "vision_level"
	LastExam         domain.QuestionID = "last_exam"
	RecentTriggers   domain.QuestionID = "recent_triggers"
)

// Option values. They are language independent; display labels come from the locale catalogs.
const (
	No      = "no"
	Yes     = "yes"
	NotSure = "not_sure"
	None    = "none"

	Female = "female"
	Male   = "male"

	MyopiaMild     = "mild"
	MyopiaModerate = "moderate"
	MyopiaHigh     = "high"
	DontKnow       = "dont_know"

	Occasional = "occasional"
	Frequent   = "frequent"

	Over48Hours   = "over_48h"
	Within48Hours = "within_48h"
	Over24Hours   = "over_24h"
	Within24Hours = "within_24h"

	Vision20_20         = "20_20_or_better"
	Vision20_30To20_60  = "20_30_to_20_60"
	Vision20_80To20_200 = "20_80_to_20_200"
	VisionWorse20_200   = "worse_than_20_200"

	ExamWithin2Years = "within_2_years"
	ExamOver2Years   = "over_2_years"
	ExamNever        = "never"

	TriggerHeadEyeTrauma = "head_eye_trauma"
	TriggerContactSports = "contact_sports"
	TriggerHeavyLifting  = "heavy_lifting"
)

// Age bounds accepted by the input layer.
const (
	MinAge = 0
	MaxAge = 120
)

var (
	retinalOnce   sync.Once
	retinalSchema *Schema
)

// RetinalDetachment returns the process-wide retinal detachment questionnaire.
func RetinalDetachment() *Schema {
	retinalOnce.Do(func() {
		s, err := New(retinalQuestions()...)
		if err != nil {
			// The catalog is a compile-time constant; a failure here is a programming error.
			panic(err)
		}
		retinalSchema = s
	})
	return retinalSchema
}

func yesNo(yes int) ChoicePoints {
	return ChoicePoints{Yes: yes}
}

func retinalQuestions() []Question {
	yn := []string{No, Yes}
	ynUnsure := []string{No, Yes, NotSure}
	onset48 := []string{Over48Hours, Within48Hours}
	onset24 := []string{Over24Hours, Within24Hours}

	return []Question{
		// A) Demographics
		{
			ID: Age, Kind: domain.NUMERIC, Section: domain.SectionDemographics,
			Min: MinAge, Max: MaxAge,
			Points: Bands{{Min: 70, Points: 3}, {Min: 60, Points: 2}, {Min: 40, Points: 1}},
		},
		{
			ID: Sex, Kind: domain.SINGLE_CHOICE, Section: domain.SectionDemographics,
			Options: []string{Female, Male},
			Points:  ChoicePoints{Male: 1},
		},

		// B) Eye history
		{ID: PriorRD, Kind: domain.SINGLE_CHOICE, Section: domain.SectionEyeHistory, Options: yn, Points: yesNo(5)},
		{ID: CataractSurgery, Kind: domain.SINGLE_CHOICE, Section: domain.SectionEyeHistory, Options: ynUnsure, Points: yesNo(2)},
		{ID: YAGCapsulotomy, Kind: domain.SINGLE_CHOICE, Section: domain.SectionEyeHistory, Options: ynUnsure, Points: yesNo(2)},
		{ID: Myopia, Kind: domain.SINGLE_CHOICE, Section: domain.SectionEyeHistory, Options: yn, Points: NoPoints{}},
		{
			ID: MyopiaLevel, Kind: domain.SINGLE_CHOICE, Section: domain.SectionEyeHistory,
			Options:    []string{None, MyopiaMild, MyopiaModerate, MyopiaHigh, DontKnow},
			Visibility: WhenAnswered(Myopia, Yes),
			Points:     ChoicePoints{MyopiaMild: 1, MyopiaModerate: 2, MyopiaHigh: 4},
		},
		{ID: RetinalCondition, Kind: domain.SINGLE_CHOICE, Section: domain.SectionEyeHistory, Options: ynUnsure, Points: yesNo(4)},
		{ID: EyeTrauma, Kind: domain.SINGLE_CHOICE, Section: domain.SectionEyeHistory, Options: yn, Points: yesNo(3)},

		// C) Systemic / family history
		{ID: Diabetes, Kind: domain.SINGLE_CHOICE, Section: domain.SectionSystemicFamily, Options: ynUnsure, Points: yesNo(1)},
		{ID: FamilyHistory, Kind: domain.SINGLE_CHOICE, Section: domain.SectionSystemicFamily, Options: ynUnsure, Points: yesNo(3)},

		// D) Current symptoms
		{ID: Floaters, Kind: domain.SINGLE_CHOICE, Section: domain.SectionSymptoms, Options: yn, Points: yesNo(3)},
		{
			ID: FloatersOnset, Kind: domain.SINGLE_CHOICE, Section: domain.SectionSymptoms,
			Options:    onset48,
			Visibility: WhenAnswered(Floaters, Yes),
			Points:     ChoicePoints{Within48Hours: 1},
		},
		{
			ID: Flashes, Kind: domain.SINGLE_CHOICE, Section: domain.SectionSymptoms,
			Options: []string{None, Occasional, Frequent},
			Points:  ChoicePoints{Occasional: 2, Frequent: 3},
		},
		{
			ID: FlashesOnset, Kind: domain.SINGLE_CHOICE, Section: domain.SectionSymptoms,
			Options:    onset48,
			Visibility: WhenAnswered(Flashes, Occasional, Frequent),
			Points:     ChoicePoints{Within48Hours: 1},
		},
		{ID: Shadow, Kind: domain.SINGLE_CHOICE, Section: domain.SectionSymptoms, Options: yn, Points: yesNo(8)},
		{
			ID: ShadowOnset, Kind: domain.SINGLE_CHOICE, Section: domain.SectionSymptoms,
			Options:    onset24,
			Visibility: WhenAnswered(Shadow, Yes),
			Points:     Emergency{Rule: ChoicePoints{Within24Hours: 2}, Trigger: Within24Hours},
		},
		{ID: VisionDecrease, Kind: domain.SINGLE_CHOICE, Section: domain.SectionSymptoms, Options: yn, Points: yesNo(5)},
		{
			ID: VisionOnset, Kind: domain.SINGLE_CHOICE, Section: domain.SectionSymptoms,
			Options:    onset24,
			Visibility: WhenAnswered(VisionDecrease, Yes),
			Points:     Emergency{Rule: ChoicePoints{Within24Hours: 2}, Trigger: Within24Hours},
		},
		{ID: PainDoubleVision, Kind: domain.SINGLE_CHOICE, Section: domain.SectionSymptoms, Options: yn, Points: yesNo(1)},

		// E) Visual function & follow-up
		{
			ID: VisionLevel, Kind: domain.SINGLE_CHOICE, Section: domain.SectionVisualFunction,
			Options: []string{Vision20_20, Vision20_30To20_60, Vision20_80To20_200, VisionWorse20_200, DontKnow},
			Points:  ChoicePoints{Vision20_30To20_60: 1, Vision20_80To20_200: 2, VisionWorse20_200: 3},
		},
		{
			ID: LastExam, Kind: domain.SINGLE_CHOICE, Section: domain.SectionVisualFunction,
			Options: []string{ExamWithin2Years, ExamOver2Years, ExamNever},
			Points:  ChoicePoints{ExamOver2Years: 1, ExamNever: 2},
		},

		// F) Lifestyle / recent triggers
		{
			ID: RecentTriggers, Kind: domain.MULTI_CHOICE, Section: domain.SectionTriggers,
			Options: []string{TriggerHeadEyeTrauma, TriggerContactSports, TriggerHeavyLifting, None, NotSure},
			Points:  Sum{
				AnyOf{Options: []string{TriggerHeadEyeTrauma, TriggerContactSports}, Points: 3},
				AnyOf{Options: []string{TriggerHeavyLifting}, Points: 1},
			},
		},
	}
}
