// MoodBinge - Mood-Based Movie Recommendation Engine
// Copyright 2026 MoodBinge Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodbinge/moodbinge

// Package mood defines the ten mood profiles and the scoring pipeline that
// ranks catalog movies against them.
package mood

import (
	"sort"
	"strings"
)

// YearPreferenceKind selects how a profile treats release years.
type YearPreferenceKind int

const (
	// YearNotImportant applies no mood-specific year handling.
	YearNotImportant YearPreferenceKind = iota
	// YearRecencyBonus nudges the enhanced score toward newer releases.
	YearRecencyBonus
	// YearClassicEras prefers a fixed set of decades.
	YearClassicEras
)

// RuntimePreference bounds the runtimes a profile considers comfortable.
type RuntimePreference struct {
	Min   int `json:"min"`
	Ideal int `json:"ideal"`
	Max   int `json:"max"`
}

// Profile is one selectable mood with its genre affinities and keyword sets.
type Profile struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	Emoji       string   `json:"emoji"`

	PrimaryGenres   []string `json:"primary_genres"`
	SecondaryGenres []string `json:"secondary_genres"`
	ExcludedGenres  []string `json:"excluded_genres"`

	Tags     []string `json:"tags"`
	Keywords []string `json:"tmdb_keywords"`

	Runtime     RuntimePreference  `json:"runtime_preference"`
	YearKind    YearPreferenceKind `json:"-"`
	ClassicEras []int              `json:"classic_eras,omitempty"`
	Sentiment   string             `json:"sentiment"`

	// keywordSet is the lowercase union of Tags and Keywords, built once
	// at registry construction.
	keywordSet map[string]struct{}
}

// MatchesKeyword reports whether tag (already lowercased) belongs to the
// profile's tag/keyword union.
func (p *Profile) MatchesKeyword(tag string) bool {
	_, ok := p.keywordSet[tag]
	return ok
}

// HasPrimary reports whether genre is one of the profile's primary genres.
func (p *Profile) HasPrimary(genre string) bool {
	for _, g := range p.PrimaryGenres {
		if g == genre {
			return true
		}
	}
	return false
}

// Registry holds the mood profiles keyed by id.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry builds the registry with the ten built-in moods.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]*Profile, len(builtinProfiles))}
	for i := range builtinProfiles {
		p := builtinProfiles[i]
		p.keywordSet = make(map[string]struct{}, len(p.Tags)+len(p.Keywords))
		for _, t := range p.Tags {
			p.keywordSet[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
		}
		for _, k := range p.Keywords {
			p.keywordSet[strings.ToLower(strings.TrimSpace(k))] = struct{}{}
		}
		r.profiles[p.ID] = &p
	}
	return r
}

// Get returns the profile for id.
func (r *Registry) Get(id string) (*Profile, bool) {
	p, ok := r.profiles[id]
	return p, ok
}

// List returns all profiles sorted by id.
func (r *Registry) List() []*Profile {
	out := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

var builtinProfiles = []Profile{
	{
		ID:              "euphoria_wave",
		Description:     "Pure happiness—big laughs, catchy tunes, and feel-good adventures.",
		Color:           "#FFEB3B",
		Emoji:           "😄",
		PrimaryGenres:   []string{"Comedy", "Animation", "Musical"},
		SecondaryGenres: []string{"Adventure", "Family"},
		ExcludedGenres:  []string{"Horror", "Crime", "Thriller", "War", "Drama", "Mystery"},
		Tags:            []string{"funny", "hilarious", "feel-good", "uplifting", "silly", "lighthearted", "energetic", "fun"},
		Keywords:        []string{"comedy", "humor", "friendship", "happy ending", "singing", "dancing", "laughter"},
		Runtime:         RuntimePreference{Min: 80, Ideal: 100, Max: 130},
		YearKind:        YearNotImportant,
		Sentiment:       "positive",
	},
	{
		ID:              "victory_high",
		Description:     "Get pumped with stories of big wins and epic comebacks.",
		Color:           "#FF9800",
		Emoji:           "🏆",
		PrimaryGenres:   []string{"Action", "Sport", "Biography"},
		SecondaryGenres: []string{"War", "Documentary"},
		ExcludedGenres:  []string{"Horror", "Film-Noir", "Romance", "Comedy", "Mystery"},
		Tags:            []string{"inspiring", "sports", "victory", "triumph", "motivational", "comeback", "heroic", "achievement", "underdog", "competition"},
		Keywords:        []string{"triumph", "underdog", "sports", "victory", "competition", "achievement", "heroism", "biography", "true story"},
		Runtime:         RuntimePreference{Min: 90, Ideal: 120, Max: 150},
		YearKind:        YearRecencyBonus,
		Sentiment:       "positive",
	},
	{
		ID:              "fury_awakened",
		Description:     "Channel your fire with films about standing up and fighting back.",
		Color:           "#D32F2F",
		Emoji:           "💪",
		PrimaryGenres:   []string{"Crime", "Western", "Action"},
		SecondaryGenres: []string{"Film-Noir"},
		ExcludedGenres:  []string{"Comedy", "Children", "Animation", "Romance", "Horror", "Musical", "Fantasy"},
		Tags:            []string{"revenge", "justice", "intense", "powerful", "gritty", "violent", "dark", "conspiracy", "vigilante", "corruption"},
		Keywords:        []string{"revenge", "justice", "rebellion", "vigilante", "fighting", "corruption", "uprising", "crime boss", "mafia", "heist"},
		Runtime:         RuntimePreference{Min: 100, Ideal: 130, Max: 160},
		YearKind:        YearNotImportant,
		Sentiment:       "negative_but_cathartic",
	},
	{
		ID:              "phantom_fear",
		Description:     "Heart-racing scares that'll have you double-checking the locks.",
		Color:           "#512DA8",
		Emoji:           "👻",
		PrimaryGenres:   []string{"Horror", "Thriller"},
		SecondaryGenres: []string{"Sci-Fi"},
		ExcludedGenres:  []string{"Comedy", "Children", "Musical", "Romance", "Animation", "Documentary", "Sport"},
		Tags:            []string{"scary", "horror", "tense", "suspense", "terrifying", "creepy", "haunting", "disturbing", "supernatural", "monster"},
		Keywords:        []string{"fear", "suspense", "supernatural", "monster", "ghost", "killer", "paranormal", "danger", "zombie", "vampire"},
		Runtime:         RuntimePreference{Min: 85, Ideal: 105, Max: 130},
		YearKind:        YearNotImportant,
		Sentiment:       "fearful",
	},
	{
		ID:              "tranquil_haven",
		Description:     "Relax and unwind with soothing, gentle movies—a cozy escape.",
		Color:           "#4CAF50",
		Emoji:           "🌿",
		PrimaryGenres:   []string{"Documentary", "Fantasy"},
		SecondaryGenres: []string{"Animation"},
		ExcludedGenres:  []string{"Horror", "Action", "Thriller", "Crime", "War", "Mystery"},
		Tags:            []string{"peaceful", "beautiful", "calm", "relaxing", "visually stunning", "soothing", "meditative", "nature", "serene", "gentle"},
		Keywords:        []string{"nature", "journey", "beautiful scenery", "meditation", "peaceful", "landscapes", "animals", "zen", "mindfulness"},
		Runtime:         RuntimePreference{Min: 80, Ideal: 100, Max: 120},
		YearKind:        YearNotImportant,
		Sentiment:       "peaceful",
	},
	{
		ID:              "heartfelt_harmony",
		Description:     "Celebrate love, friendship, and all the warm, fuzzy moments of life.",
		Color:           "#FF8A80",
		Emoji:           "❤️",
		PrimaryGenres:   []string{"Romance", "Comedy"},
		SecondaryGenres: []string{"Musical"},
		ExcludedGenres:  []string{"Horror", "Thriller", "War", "Crime", "Action", "Sci-Fi"},
		Tags:            []string{"romantic", "touching", "emotional", "heartwarming", "love", "sweet", "moving", "poignant", "relationship", "dating"},
		Keywords:        []string{"love", "romance", "relationship", "family", "friendship", "emotional", "wedding", "dating", "marriage"},
		Runtime:         RuntimePreference{Min: 90, Ideal: 110, Max: 130},
		YearKind:        YearRecencyBonus,
		Sentiment:       "warm",
	},
	{
		ID:              "somber_ruminations",
		Description:     "Thoughtful dramas for when you want to slow down and reflect.",
		Color:           "#90A4AE",
		Emoji:           "🤔",
		PrimaryGenres:   []string{"Drama", "Film-Noir"},
		SecondaryGenres: []string{"Documentary"},
		ExcludedGenres:  []string{"Comedy", "Children", "Action", "Musical", "Horror", "Romance"},
		Tags:            []string{"depressing", "sad", "melancholy", "thoughtful", "profound", "philosophical", "dark", "intelligent", "introspective", "psychological"},
		Keywords:        []string{"tragedy", "loss", "reflection", "grief", "depression", "solitude", "suicide", "failure", "psychology", "mental health"},
		Runtime:         RuntimePreference{Min: 100, Ideal: 130, Max: 180},
		YearKind:        YearNotImportant,
		Sentiment:       "sad",
	},
	{
		ID:              "cosmic_emptiness",
		Description:     "Explore life's big questions and existential mysteries—you're not alone.",
		Color:           "#5C6BC0",
		Emoji:           "🌌",
		PrimaryGenres:   []string{"Sci-Fi", "Drama"},
		SecondaryGenres: []string{"Fantasy"},
		ExcludedGenres:  []string{"Comedy", "Children", "Musical", "Western", "Horror", "Romance"},
		Tags:            []string{"existential", "philosophical", "surreal", "abstract", "experimental", "weird", "cerebral", "mind-bending", "metaphysical", "cosmic"},
		Keywords:        []string{"existential", "surreal", "dream", "reality", "consciousness", "universe", "perception", "space", "time", "philosophy"},
		Runtime:         RuntimePreference{Min: 100, Ideal: 130, Max: 180},
		YearKind:        YearNotImportant,
		Sentiment:       "contemplative",
	},
	{
		ID:              "timeworn_echoes",
		Description:     "Nostalgic journeys that bring back memories and bittersweet smiles.",
		Color:           "#FFD54F",
		Emoji:           "⏳",
		PrimaryGenres:   []string{"Drama", "Romance"},
		SecondaryGenres: []string{"Fantasy", "Musical"},
		ExcludedGenres:  []string{"Horror", "Thriller", "War", "Action", "Sci-Fi"},
		Tags:            []string{"nostalgic", "classic", "retro", "historical", "period", "memory", "childhood", "bittersweet", "vintage", "timeless"},
		Keywords:        []string{"nostalgia", "memory", "childhood", "coming of age", "flashback", "reminiscence", "history", "period piece", "vintage"},
		Runtime:         RuntimePreference{Min: 100, Ideal: 120, Max: 160},
		YearKind:        YearClassicEras,
		ClassicEras:     []int{1940, 1950, 1960, 1970, 1980},
		Sentiment:       "bittersweet",
	},
	{
		ID:              "wonder_hunt",
		Description:     "Feed your curiosity with discoveries, mysteries, and mind-bending revelations.",
		Color:           "#2196F3",
		Emoji:           "🔍",
		PrimaryGenres:   []string{"Mystery", "Documentary", "Thriller"},
		SecondaryGenres: []string{"Adventure"},
		ExcludedGenres:  []string{"Horror", "Comedy", "Romance", "Musical", "War"},
		Tags:            []string{"fascinating", "thought-provoking", "educational", "intriguing", "mystery", "intelligent", "twist", "discovery", "investigation"},
		Keywords:        []string{"discovery", "investigation", "science", "mystery", "truth", "revelation", "journey", "detective", "puzzle", "conspiracy"},
		Runtime:         RuntimePreference{Min: 90, Ideal: 120, Max: 150},
		YearKind:        YearNotImportant,
		Sentiment:       "curious",
	},
}
