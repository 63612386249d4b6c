package workout

import (
	"math"

	"github.com/evankoski/liftplan/internal/ptr"
)

// loadPercentage resolves the fraction of one-rep max used for working sets.
// Unmatched combinations default to a conservative 0.65 because weight
// back-filling is best-effort enrichment, not plan validity.
func loadPercentage(goal TrainingGoal, experience ExperienceLevel) float64 {
	switch goal {
	case GoalStrength:
		switch experience {
		case ExperienceUntrained:
			return 0.65
		case ExperienceTrained:
			return 0.75
		case ExperienceAdvanced:
			return 0.85
		}
	case GoalHypertrophy:
		switch experience {
		case ExperienceUntrained:
			return 0.65
		case ExperienceTrained, ExperienceAdvanced:
			return 0.75
		}
	case GoalEndurance:
		return 0.55
	}
	return 0.65
}

// applyWeights back-fills working weights on the plan's sets from known rep
// maxes, rounding to the nearest 2.5 for loadable increments. Bodyweight
// exercises and exercises without a positive rep max are left untouched.
func applyWeights(plan *Plan, repMaxes map[int]float64, goal TrainingGoal, experience ExperienceLevel) {
	if len(repMaxes) == 0 {
		return
	}

	percentage := loadPercentage(goal, experience)

	for i := range plan.Activities {
		activity := &plan.Activities[i]
		if activity.Exercise.Equipment == EquipmentNone {
			continue
		}
		repMax, ok := repMaxes[activity.Exercise.ID]
		if !ok || repMax <= 0 {
			continue
		}
		weight := math.Round(repMax*percentage/2.5) * 2.5
		for j := range activity.Sets {
			activity.Sets[j].WeightKg = ptr.Ref(weight)
		}
	}
}
