package chatbot

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Rule answers messages containing any of its keywords. Higher priority
// rules are tried first; ties keep declaration order.
type Rule struct {
	Name        string
	Priority    int
	Keywords    []string
	Reply       string
	Suggestions []string
}

type Reply struct {
	Topic       string   `json:"topic"`
	Text        string   `json:"reply"`
	TypingMS    int      `json:"typing_ms"`
	Suggestions []string `json:"suggestions"`
}

const (
	typingBase    = 400 * time.Millisecond
	typingPerRune = 12 * time.Millisecond
	typingMax     = 2000 * time.Millisecond
)

// TypingDelay is the cosmetic "bot is typing" pause the site shows before a
// reply.
func TypingDelay(text string) time.Duration {
	d := typingBase + time.Duration(utf8.RuneCountInString(text))*typingPerRune
	if d > typingMax {
		return typingMax
	}
	return d
}

type Bot struct {
	rules    []Rule
	fallback Rule
}

func New(rules []Rule, fallback Rule) *Bot {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority > sorted[j].Priority })
	return &Bot{rules: sorted, fallback: fallback}
}

// NewDefault is the venue's stock rule set.
func NewDefault() *Bot {
	return New(DefaultRules(), FallbackRule)
}

func (b *Bot) Respond(message string) Reply {
	norm := normalize(message)
	for _, r := range b.rules {
		if matches(norm, r.Keywords) {
			return reply(r)
		}
	}
	return reply(b.fallback)
}

func reply(r Rule) Reply {
	suggestions := r.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}
	return Reply{
		Topic:       r.Name,
		Text:        r.Reply,
		TypingMS:    int(TypingDelay(r.Reply) / time.Millisecond),
		Suggestions: suggestions,
	}
}

// normalize lowercases, turns punctuation into spaces and pads with spaces so
// keywords only match whole words.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return " " + strings.Join(strings.Fields(b.String()), " ") + " "
}

func matches(norm string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(norm, " "+kw+" ") {
			return true
		}
	}
	return false
}

var FallbackRule = Rule{
	Name:        "fallback",
	Reply:       "Sorry, I didn't catch that. I can help with opening hours, bookings, karaoke, the menu and upcoming games.",
	Suggestions: []string{"Opening hours", "Book a table", "Karaoke rooms", "See the menu"},
}

func DefaultRules() []Rule {
	return []Rule{
		{
			Name:        "reservations",
			Priority:    90,
			Keywords:    []string{"book", "booking", "reserve", "reservation", "reservations", "table for"},
			Reply:       "You can book a table or a karaoke room on our Reservations page. Pick a date, time and party size; we'll confirm by email once a room is assigned.",
			Suggestions: []string{"Karaoke rooms", "Opening hours"},
		},
		{
			Name:        "private_events",
			Priority:    80,
			Keywords:    []string{"private", "party", "birthday", "event", "events", "corporate", "hire"},
			Reply:       "We host birthdays, leaving dos and corporate nights. Karaoke rooms take up to 10 guests; for bigger groups send us a note through the contact form.",
			Suggestions: []string{"Book a table", "Contact us"},
		},
		{
			Name:        "karaoke",
			Priority:    70,
			Keywords:    []string{"karaoke", "sing", "singing", "songs", "mic", "microphone"},
			Reply:       "Our private karaoke rooms fit up to 10 people and can be booked for 1 to 3 hours. Song lists are updated every month.",
			Suggestions: []string{"Book a karaoke room", "Prices"},
		},
		{
			Name:        "sports",
			Priority:    65,
			Keywords:    []string{"game", "games", "match", "matches", "football", "soccer", "basketball", "nba", "nfl", "ufc", "screen", "screens", "tv", "watch"},
			Reply:       "We show the big games on every screen, with sound on for headline matches. Book a table early on game days.",
			Suggestions: []string{"Book a table", "Opening hours"},
		},
		{
			Name:        "drinks",
			Priority:    60,
			Keywords:    []string{"drink", "drinks", "beer", "beers", "cocktail", "cocktails", "wine", "happy hour", "bar"},
			Reply:       "Happy hour runs weekdays from 4pm to 7pm with half-price draught beer and house cocktails.",
			Suggestions: []string{"See the menu", "Opening hours"},
		},
		{
			Name:        "menu",
			Priority:    55,
			Keywords:    []string{"menu", "food", "eat", "hungry", "wings", "burger", "burgers", "vegan", "vegetarian", "kitchen", "price", "prices"},
			Reply:       "Our kitchen serves wings, burgers, sharing plates and vegetarian options until an hour before closing. The full menu with prices is on the Menu page.",
			Suggestions: []string{"Happy hour", "Book a table"},
		},
		{
			Name:        "hours",
			Priority:    50,
			Keywords:    []string{"hours", "open", "opening", "close", "closing", "today", "tonight", "when"},
			Reply:       "We're open Monday to Thursday 4pm to midnight, Friday and Saturday noon to 2am, and Sunday noon to 11pm.",
			Suggestions: []string{"Book a table", "Where are you?"},
		},
		{
			Name:        "parking",
			Priority:    45,
			Keywords:    []string{"parking", "park", "car", "cars"},
			Reply:       "There's a public car park behind the venue, free after 6pm. Street parking is limited on game nights.",
			Suggestions: []string{"Where are you?"},
		},
		{
			Name:        "location",
			Priority:    40,
			Keywords:    []string{"where", "address", "location", "directions", "find you", "located"},
			Reply:       "You'll find us on the high street, right next to the station. Directions are on the Contact page.",
			Suggestions: []string{"Parking", "Opening hours"},
		},
		{
			Name:        "contact",
			Priority:    35,
			Keywords:    []string{"contact", "phone", "call", "email", "reach"},
			Reply:       "You can reach us through the contact form or by phone during opening hours.",
			Suggestions: []string{"Opening hours"},
		},
		{
			Name:     "thanks",
			Priority: 20,
			Keywords: []string{"thanks", "thank you", "thx", "cheers"},
			Reply:    "You're welcome! Anything else I can help with?",
		},
		{
			Name:     "goodbye",
			Priority: 15,
			Keywords: []string{"bye", "goodbye", "see you", "later"},
			Reply:    "See you soon!",
		},
		{
			Name:        "greeting",
			Priority:    10,
			Keywords:    []string{"hi", "hello", "hey", "hiya", "good evening", "good afternoon", "good morning"},
			Reply:       "Hi there! Ask me about opening hours, bookings, karaoke or tonight's games.",
			Suggestions: []string{"Opening hours", "Book a table", "Karaoke rooms"},
		},
	}
}
