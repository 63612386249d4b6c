package workout

import (
	"slices"
)

// complexityScore ranks how valuable an exercise is to schedule early: 100
// for a compound movement plus one point per secondary muscle group. Any
// compound therefore outranks any isolation.
func complexityScore(ex Exercise) int {
	score := len(ex.SecondaryCategories)
	if ex.MovementType() == MovementCompound {
		score += 100
	}
	return score
}

// topByScore ranks candidates by complexity score descending and takes up to
// n. The sort is stable so equal-score exercises keep their pool order,
// which keeps selection deterministic.
func topByScore(candidates []Exercise, n int) []Exercise {
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b Exercise) int {
		return complexityScore(b) - complexityScore(a)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// primaryIn returns exercises whose primary category matches, regardless of
// movement type.
func primaryIn(pool []Exercise, category string) []Exercise {
	var matched []Exercise
	for _, ex := range pool {
		if ex.PrimaryCategory == category {
			matched = append(matched, ex)
		}
	}
	return matched
}

// compoundsIn returns compound exercises whose primary category matches.
func compoundsIn(pool []Exercise, category string) []Exercise {
	var matched []Exercise
	for _, ex := range pool {
		if ex.MovementType() == MovementCompound && ex.PrimaryCategory == category {
			matched = append(matched, ex)
		}
	}
	return matched
}

// isolationsIn returns isolation exercises that touch the category as
// primary or secondary.
func isolationsIn(pool []Exercise, category string) []Exercise {
	var matched []Exercise
	for _, ex := range pool {
		if ex.MovementType() != MovementIsolation {
			continue
		}
		if ex.PrimaryCategory == category || slices.Contains(ex.SecondaryCategories, category) {
			matched = append(matched, ex)
		}
	}
	return matched
}

// selectFullBody draws a fixed quota per muscle group independent of goal and
// experience. Sparse pools yield fewer exercises instead of failing.
func selectFullBody(pool []Exercise) []Exercise {
	quotas := []struct {
		category string
		count    int
	}{
		{"Legs", 2},
		{"Chest", 1},
		{"Back", 2},
		{"Shoulders", 1},
		{"Biceps", 1},
		{"Triceps", 1},
		{"Core", 1},
	}

	var selected []Exercise
	for _, quota := range quotas {
		selected = append(selected, topByScore(primaryIn(pool, quota.category), quota.count)...)
	}
	return selected
}

// compoundQuota is how many compound slots a split day gets per experience
// level.
func compoundQuota(experience ExperienceLevel) int {
	switch experience {
	case ExperienceTrained:
		return 4
	case ExperienceAdvanced:
		return 5
	case ExperienceUntrained:
	}
	return 3
}

// isolationQuota is how many isolation slots a push/pull/legs day gets.
func isolationQuota(experience ExperienceLevel) int {
	switch experience {
	case ExperienceTrained:
		return 2
	case ExperienceAdvanced:
		return 3
	case ExperienceUntrained:
	}
	return 1
}

// upperLowerIsolationQuota caps isolation volume lower on two-way split days.
func upperLowerIsolationQuota(experience ExperienceLevel) int {
	switch experience {
	case ExperienceTrained, ExperienceAdvanced:
		return 2
	case ExperienceUntrained:
	}
	return 1
}

// selectPushPullDay draws the day's fixed compound and isolation categories
// under the experience-driven quotas.
func selectPushPullDay(pool []Exercise, day PushPullDay, experience ExperienceLevel) []Exercise {
	compounds := compoundQuota(experience)
	isolations := isolationQuota(experience)

	var compoundCategory, isolationCategory string
	switch day {
	case PushDay:
		compoundCategory, isolationCategory = "Chest", "Triceps"
	case PullDay:
		compoundCategory, isolationCategory = "Back", "Biceps"
	case LegsDay:
		compoundCategory, isolationCategory = "Legs", "Core"
	}

	selected := topByScore(compoundsIn(pool, compoundCategory), compounds)
	selected = append(selected, topByScore(isolationsIn(pool, isolationCategory), isolations)...)
	return selected
}

// selectUpperLowerDay draws the two-way split's fixed category mix: upper
// days split the compound quota between chest and back plus one shoulder
// compound, lower days spend it all on legs with glute and core accessories.
func selectUpperLowerDay(pool []Exercise, day UpperLowerDay, experience ExperienceLevel) []Exercise {
	compounds := compoundQuota(experience)
	isolations := upperLowerIsolationQuota(experience)

	var selected []Exercise
	switch day {
	case UpperDay:
		selected = topByScore(compoundsIn(pool, "Chest"), compounds/2)
		selected = append(selected, topByScore(compoundsIn(pool, "Back"), compounds/2)...)
		selected = append(selected, topByScore(compoundsIn(pool, "Shoulders"), 1)...)
		selected = append(selected, topByScore(isolationsIn(pool, "Triceps"), isolations)...)
		selected = append(selected, topByScore(isolationsIn(pool, "Biceps"), isolations)...)
	case LowerDay:
		selected = topByScore(compoundsIn(pool, "Legs"), compounds)
		selected = append(selected, topByScore(isolationsIn(pool, "Core"), isolations)...)
		selected = append(selected, topByScore(isolationsIn(pool, "Glutes"), 1)...)
	}
	return selected
}
