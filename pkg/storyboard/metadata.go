package storyboard

import (
	"regexp"
	"strings"
)

var (
	sceneTag   = regexp.MustCompile(`\[SCENE:\s*([\s\S]*?)\]`)
	moodTag    = regexp.MustCompile(`\[MOOD:\s*([\s\S]*?)\]`)
	thoughtTag = regexp.MustCompile(`\[THOUGHT:\s*([\s\S]*?)\]`)
)

// SceneMetadata is what a themed reply carries besides its dialogue.
// Nil fields were absent (or, for Mood, not a known mood).
type SceneMetadata struct {
	Dialogue string
	Scene    *string
	Mood     *string
	Thought  *string
}

// ParseSceneMetadata pulls the [SCENE:], [MOOD:] and [THOUGHT:] tags out of
// text. The last occurrence of each tag wins and every occurrence is removed
// from Dialogue.
func ParseSceneMetadata(text string) SceneMetadata {
	meta := SceneMetadata{}
	dialogue := text

	if v, ok := lastTagValue(sceneTag, text); ok {
		meta.Scene = &v
	}
	if v, ok := lastTagValue(moodTag, text); ok {
		mood := strings.ToLower(v)
		if IsValidMood(mood) {
			meta.Mood = &mood
		}
	}
	if v, ok := lastTagValue(thoughtTag, text); ok {
		meta.Thought = &v
	}

	for _, re := range []*regexp.Regexp{sceneTag, moodTag, thoughtTag} {
		dialogue = re.ReplaceAllString(dialogue, "")
	}
	meta.Dialogue = strings.TrimSpace(dialogue)
	return meta
}

// MoodOrDefault returns the parsed mood, falling back to DefaultMood.
func (m SceneMetadata) MoodOrDefault() string {
	if m.Mood != nil {
		return *m.Mood
	}
	return DefaultMood
}

func lastTagValue(re *regexp.Regexp, text string) (string, bool) {
	matches := re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return "", false
	}
	return strings.TrimSpace(matches[len(matches)-1][1]), true
}
