package dispatch

import (
	"fmt"
	"strings"

	"github.com/louisbranch/clubhouse/internal/services/realtime/storage"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supportedLocales = []language.Tag{
	language.AmericanEnglish,
	language.BrazilianPortuguese,
}

var localeMatcher = language.NewMatcher(supportedLocales)

type renderKeys struct {
	title   string
	message string
}

var kindKeys = map[storage.NotificationKind]renderKeys{
	storage.NotificationKindEvent:        {"notification.event.title", "notification.event.message"},
	storage.NotificationKindAnnouncement: {"notification.announcement.title", "notification.announcement.message"},
	storage.NotificationKindGeneral:      {"notification.general.title", "notification.general.message"},
}

var catalogMessages = map[language.Tag]map[string]string{
	language.AmericanEnglish: {
		"notification.event.title":          "New event",
		"notification.event.message":        "A new event was posted in %s.",
		"notification.announcement.title":   "New announcement",
		"notification.announcement.message": "%s posted a new announcement.",
		"notification.general.title":        "Club update",
		"notification.general.message":      "There is news in %s.",
	},
	language.BrazilianPortuguese: {
		"notification.event.title":          "Novo evento",
		"notification.event.message":        "Um novo evento foi publicado em %s.",
		"notification.announcement.title":   "Novo anúncio",
		"notification.announcement.message": "%s publicou um novo anúncio.",
		"notification.general.title":        "Novidades do clube",
		"notification.general.message":      "Há novidades em %s.",
	},
}

// Renderer turns notification kinds into localized alert text.
type Renderer struct {
	printer *message.Printer
	tag     language.Tag
}

// NewRenderer returns a renderer for the closest supported locale. An empty
// locale selects en-US.
func NewRenderer(locale string) (*Renderer, error) {
	requested := language.AmericanEnglish
	if locale = strings.TrimSpace(locale); locale != "" {
		parsed, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", locale, err)
		}
		requested = parsed
	}
	_, index, _ := localeMatcher.Match(requested)
	tag := supportedLocales[index]

	builder := catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))
	for catalogTag, messages := range catalogMessages {
		for key, text := range messages {
			if err := builder.SetString(catalogTag, key, text); err != nil {
				return nil, fmt.Errorf("register message %s/%s: %w", catalogTag, key, err)
			}
		}
	}
	return &Renderer{
		printer: message.NewPrinter(tag, message.Catalog(builder)),
		tag:     tag,
	}, nil
}

// Locale returns the BCP 47 tag the renderer writes in.
func (r *Renderer) Locale() string {
	return r.tag.String()
}

// Render returns the title and message for a notification about clubName.
func (r *Renderer) Render(kind storage.NotificationKind, clubName string) (string, string) {
	keys, ok := kindKeys[kind]
	if !ok {
		keys = kindKeys[storage.NotificationKindGeneral]
	}
	return r.printer.Sprintf(keys.title), r.printer.Sprintf(keys.message, clubName)
}
