package algorithms

import (
	"fmt"
	"math"

	"skillswap_backend/internal/models"
)

// SwapScore rates how good a skill swap with candidate would be for me (0-100).
func SwapScore(me, candidate *models.User) (float64, []string) {
	score := 0.0
	reasons := []string{}

	// They teach what I want to learn (50 points)
	teaches := overlap(models.SkillNames(candidate.Skills), models.SkillNames(me.Interests))
	if len(me.Interests) > 0 {
		score += 50 * float64(len(teaches)) / float64(len(me.Interests))
	}
	if len(teaches) > 0 {
		reasons = append(reasons, fmt.Sprintf("Can teach you %s", joinNames(teaches)))
	}

	// They want to learn what I teach (35 points)
	learns := overlap(models.SkillNames(candidate.Interests), models.SkillNames(me.Skills))
	if len(me.Skills) > 0 {
		score += 35 * float64(len(learns)) / float64(len(me.Skills))
	}
	if len(learns) > 0 {
		reasons = append(reasons, fmt.Sprintf("Wants to learn %s", joinNames(learns)))
	}

	// Has demo videos for the skills they would teach (15 points)
	if len(teaches) > 0 {
		videos := candidate.SkillVideoMap()
		withVideo := 0
		for _, s := range teaches {
			if _, ok := videos[s]; ok {
				withVideo++
			}
		}
		score += 15 * float64(withVideo) / float64(len(teaches))
		if withVideo > 0 {
			reasons = append(reasons, "Has skill videos")
		}
	}

	return math.Round(score*10) / 10, reasons
}

func overlap(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	out := []string{}
	for _, s := range a {
		if _, ok := set[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	out := names[0]
	for _, n := range names[1 : len(names)-1] {
		out += ", " + n
	}
	return out + " and " + names[len(names)-1]
}
