package workout

import (
	"slices"

	"github.com/evankoski/liftplan/internal/ptr"
)

// buildActivities turns the selected exercises into plan activities with the
// prescribed sets, ordered by descending complexity score so the most
// demanding movements come first in the session.
func buildActivities(exercises []Exercise, params trainingParameters) []Activity {
	ordered := slices.Clone(exercises)
	slices.SortStableFunc(ordered, func(a, b Exercise) int {
		return complexityScore(b) - complexityScore(a)
	})

	activities := make([]Activity, 0, len(ordered))
	for i, ex := range ordered {
		sets := make([]Set, 0, params.sets)
		for setNumber := 1; setNumber <= params.sets; setNumber++ {
			sets = append(sets, Set{
				Order:       setNumber,
				Reps:        params.reps,
				WeightKg:    nil,
				RestSeconds: ptr.Ref(params.restSeconds),
			})
		}
		activities = append(activities, Activity{
			Exercise: ex,
			Order:    i + 1,
			Sets:     sets,
		})
	}
	return activities
}
