package chatbot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRespond_Topics(t *testing.T) {
	bot := NewDefault()
	cases := map[string]string{
		"Hello!":                                "greeting",
		"hi, what are your opening hours?":      "hours",
		"Can I book a karaoke room for Friday?": "reservations",
		"do you have karaoke":                   "karaoke",
		"Are you showing the NBA finals?":       "sports",
		"when is happy hour":                    "drinks",
		"Got vegan food?":                       "menu",
		"Is there parking nearby":               "parking",
		"what's your address":                   "location",
		"thanks a lot":                          "thanks",
		"ok bye":                                "goodbye",
		"planning a birthday party":             "private_events",
	}
	for msg, topic := range cases {
		assert.Equal(t, topic, bot.Respond(msg).Topic, msg)
	}
}

func TestRespond_WholeWordsOnly(t *testing.T) {
	bot := NewDefault()
	// "this" contains "hi" but is not the word "hi".
	assert.Equal(t, "fallback", bot.Respond("this is weird").Topic)
}

func TestRespond_Fallback(t *testing.T) {
	r := NewDefault().Respond("quantum chromodynamics")
	assert.Equal(t, "fallback", r.Topic)
	assert.NotEmpty(t, r.Suggestions)
}

func TestNew_PriorityOrderIsStable(t *testing.T) {
	bot := New([]Rule{
		{Name: "low", Priority: 1, Keywords: []string{"x"}},
		{Name: "first", Priority: 5, Keywords: []string{"x"}},
		{Name: "second", Priority: 5, Keywords: []string{"x"}},
	}, FallbackRule)
	assert.Equal(t, "first", bot.Respond("x").Topic)
}

func TestTypingDelay(t *testing.T) {
	assert.Equal(t, 400*time.Millisecond, TypingDelay(""))
	assert.Equal(t, 460*time.Millisecond, TypingDelay("hello"))
	assert.Equal(t, 2000*time.Millisecond, TypingDelay(strings.Repeat("a", 500)))

	r := NewDefault().Respond("bye")
	assert.Equal(t, 400+12*len("See you soon!"), r.TypingMS)
}
