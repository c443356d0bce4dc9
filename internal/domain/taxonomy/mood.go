package taxonomy

// Mood identifies a requested dressing mood.
type Mood string

// Canonical moods.
const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodTrendy  Mood = "trendy"
	MoodCasual  Mood = "casual"
	MoodFestive Mood = "festive"
	MoodUrban   Mood = "urban"
	MoodCozy    Mood = "cozy"
)

// MoodProfile captures the styling bias applied for a mood.
type MoodProfile struct {
	Mood       Mood
	StyleBias  []Style
	Palette    []Color
	Background string
}

var moodProfiles = map[Mood]MoodProfile{
	MoodHappy: {
		Mood:       MoodHappy,
		StyleBias:  []Style{StyleCasual, StyleParty},
		Palette:    []Color{"yellow", "coral", "pink"},
		Background: "#FFF2CC",
	},
	MoodNeutral: {
		Mood:       MoodNeutral,
		StyleBias:  []Style{StyleCasual, StyleBusiness},
		Palette:    []Color{"beige", "gray", "white"},
		Background: "#F5F5F5",
	},
	MoodTrendy: {
		Mood:       MoodTrendy,
		StyleBias:  []Style{StyleStreet, StyleParty},
		Palette:    []Color{"black", "white", "blue"},
		Background: "#E1E8FF",
	},
	MoodCasual: {
		Mood:       MoodCasual,
		StyleBias:  []Style{StyleCasual, StyleStreet},
		Palette:    []Color{"green", "blue", "white"},
		Background: "#E4F2E7",
	},
	MoodFestive: {
		Mood:       MoodFestive,
		StyleBias:  []Style{StyleParty},
		Palette:    []Color{"red", "gold", "black"},
		Background: "#FFD6A5",
	},
	MoodUrban: {
		Mood:       MoodUrban,
		StyleBias:  []Style{StyleStreet, StyleCasual},
		Palette:    []Color{"black", "gray", "white"},
		Background: "#DDE1E4",
	},
	MoodCozy: {
		Mood:       MoodCozy,
		StyleBias:  []Style{StyleCasual},
		Palette:    []Color{"beige", "brown", "gray"},
		Background: "#F1E8DF",
	},
}

// Moods returns the canonical moods in a stable order.
func Moods() []Mood {
	return []Mood{MoodHappy, MoodNeutral, MoodTrendy, MoodCasual, MoodFestive, MoodUrban, MoodCozy}
}

// KnownMood reports whether a raw mood string is part of the taxonomy.
func KnownMood(raw string) bool {
	_, ok := moodProfiles[Mood(normalizeKey(raw))]
	return ok
}

// ProfileFor returns the mood profile for a raw mood string, falling back
// to the neutral profile for unknown or empty values. The returned profile
// is a copy; callers may modify it freely.
func ProfileFor(raw string) MoodProfile {
	profile, ok := moodProfiles[Mood(normalizeKey(raw))]
	if !ok {
		profile = moodProfiles[MoodNeutral]
	}
	out := MoodProfile{
		Mood:       profile.Mood,
		StyleBias:  make([]Style, len(profile.StyleBias)),
		Palette:    make([]Color, len(profile.Palette)),
		Background: profile.Background,
	}
	copy(out.StyleBias, profile.StyleBias)
	copy(out.Palette, profile.Palette)
	return out
}
