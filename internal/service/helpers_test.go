package service

import (
	"github.com/sirupsen/logrus"

	"github.com/rd-risk-mcp-server/internal/domain"
	"github.com/rd-risk-mcp-server/internal/schema"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// baselineAnswers answers every base question with its lowest-risk option; no follow-up is unlocked.
func baselineAnswers() domain.AnswerSet {
	return domain.AnswerSet{
		schema.Age:              domain.Numeric(30),
		schema.Sex:              domain.SingleChoice(schema.Female),
		schema.PriorRD:          domain.SingleChoice(schema.No),
		schema.CataractSurgery:  domain.SingleChoice(schema.No),
		schema.YAGCapsulotomy:   domain.SingleChoice(schema.No),
		schema.Myopia:           domain.SingleChoice(schema.No),
		schema.RetinalCondition: domain.SingleChoice(schema.No),
		schema.EyeTrauma:        domain.SingleChoice(schema.No),
		schema.Diabetes:         domain.SingleChoice(schema.No),
		schema.FamilyHistory:    domain.SingleChoice(schema.No),
		schema.Floaters:         domain.SingleChoice(schema.No),
		schema.Flashes:          domain.SingleChoice(schema.None),
		schema.Shadow:           domain.SingleChoice(schema.No),
		schema.VisionDecrease:   domain.SingleChoice(schema.No),
		schema.PainDoubleVision: domain.SingleChoice(schema.No),
		schema.VisionLevel:      domain.SingleChoice(schema.Vision20_20),
		schema.LastExam:         domain.SingleChoice(schema.ExamWithin2Years),
		schema.RecentTriggers:   domain.MultiChoice(schema.None),
	}
}

// adverseAnswers picks the highest-scoring option everywhere, worth 63 points.
func adverseAnswers() domain.AnswerSet {
	return domain.AnswerSet{
		schema.Age:              domain.Numeric(75),
		schema.Sex:              domain.SingleChoice(schema.Male),
		schema.PriorRD:          domain.SingleChoice(schema.Yes),
		schema.CataractSurgery:  domain.SingleChoice(schema.Yes),
		schema.YAGCapsulotomy:   domain.SingleChoice(schema.Yes),
		schema.Myopia:           domain.SingleChoice(schema.Yes),
		schema.MyopiaLevel:      domain.SingleChoice(schema.MyopiaHigh),
		schema.RetinalCondition: domain.SingleChoice(schema.Yes),
		schema.EyeTrauma:        domain.SingleChoice(schema.Yes),
		schema.Diabetes:         domain.SingleChoice(schema.Yes),
		schema.FamilyHistory:    domain.SingleChoice(schema.Yes),
		schema.Floaters:         domain.SingleChoice(schema.Yes),
		schema.FloatersOnset:    domain.SingleChoice(schema.Within48Hours),
		schema.Flashes:          domain.SingleChoice(schema.Frequent),
		schema.FlashesOnset:     domain.SingleChoice(schema.Within48Hours),
		schema.Shadow:           domain.SingleChoice(schema.Yes),
		schema.ShadowOnset:      domain.SingleChoice(schema.Within24Hours),
		schema.VisionDecrease:   domain.SingleChoice(schema.Yes),
		schema.VisionOnset:      domain.SingleChoice(schema.Within24Hours),
		schema.PainDoubleVision: domain.SingleChoice(schema.Yes),
		schema.VisionLevel:      domain.SingleChoice(schema.VisionWorse20_200),
		schema.LastExam:         domain.SingleChoice(schema.ExamNever),
		schema.RecentTriggers: domain.MultiChoice(
			schema.TriggerHeadEyeTrauma, schema.TriggerContactSports, schema.TriggerHeavyLifting,
		),
	}
}
