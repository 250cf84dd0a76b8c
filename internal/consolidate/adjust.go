package consolidate

import "newsgrade/internal/classify"

// humanCaps are the corrective ceilings a human editor would apply. Unlike
// the pitfall ceilings these DO clamp the score.
var humanCaps = map[classify.ContentType]float64{
	classify.ContentTweet:    7.5,
	classify.ContentBlog:     8.5,
	classify.ContentResearch: 10.0,
	classify.ContentChart:    6.0,
}

// HumanAdjust applies the editor-style ceiling for the content type.
// Types without a cap pass through untouched.
func HumanAdjust(score float64, ct classify.ContentType) float64 {
	if ceiling, ok := humanCaps[ct]; ok && score > ceiling {
		return ceiling
	}
	return score
}
