package storyboard

// Mood is the date's visible reaction, reported by the model per turn.
type Mood struct {
	Key   string `json:"key"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
	Label string `json:"label"`
}

const DefaultMood = "happy"

var moods = []Mood{
	{Key: "excited", Emoji: "\U0001F60D", Color: "#ff69b4", Label: "Smitten"},
	{Key: "flirty", Emoji: "\U0001F60F", Color: "#ff1493", Label: "Flirty"},
	{Key: "happy", Emoji: "\U0001F60A", Color: "#ffb347", Label: "Vibing"},
	{Key: "laughing", Emoji: "\U0001F602", Color: "#ffd700", Label: "Dying"},
	{Key: "nervous", Emoji: "\U0001F605", Color: "#87ceeb", Label: "Nervous"},
	{Key: "impressed", Emoji: "\U0001F929", Color: "#9b59b6", Label: "Impressed"},
	{Key: "bored", Emoji: "\U0001F610", Color: "#95a5a6", Label: "Bored"},
	{Key: "annoyed", Emoji: "\U0001F624", Color: "#e74c3c", Label: "Annoyed"},
	{Key: "awkward", Emoji: "\U0001F62C", Color: "#f39c12", Label: "Awkward"},
	{Key: "charmed", Emoji: "\U0001F970", Color: "#e91e63", Label: "Charmed"},
}

func Moods() []Mood {
	out := make([]Mood, len(moods))
	copy(out, moods)
	return out
}

func IsValidMood(key string) bool {
	for _, m := range moods {
		if m.Key == key {
			return true
		}
	}
	return false
}

func moodKeys() []string {
	keys := make([]string, len(moods))
	for i, m := range moods {
		keys[i] = m.Key
	}
	return keys
}
