package i18n

import (
	"embed"
	"log/slog"
	"path"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var locales embed.FS

type Localizer struct {
	bundle     *goi18n.Bundle
	localizers map[string]*goi18n.Localizer
}

// NewLocalizer loads the embedded message files of the given languages.
// Unknown languages fall back to DEFAULT_LANG at lookup time.
func NewLocalizer(langs ...string) *Localizer {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	l := &Localizer{
		bundle:     bundle,
		localizers: make(map[string]*goi18n.Localizer),
	}

	for _, lang := range append(langs, DEFAULT_LANG) {
		if _, exist := l.localizers[lang]; exist {
			continue
		}
		file := path.Join("locales", lang+".toml")
		raw, err := locales.ReadFile(file)
		if err != nil {
			slog.Warn("language file not found", slog.String("lang", lang), slog.String("component", "i18n"))
			continue
		}
		if _, err = bundle.ParseMessageFileBytes(raw, file); err != nil {
			panic(err)
		}
		l.localizers[lang] = goi18n.NewLocalizer(bundle, lang)
	}
	return l
}

// Get returns the message of id in lang, the id itself when no
// translation exists.
func (l *Localizer) Get(lang, id string) string {
	loc, ok := l.localizers[lang]
	if !ok {
		loc = l.localizers[DEFAULT_LANG]
	}
	if loc == nil {
		return id
	}
	msg, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: id})
	if err != nil || msg == "" {
		return id
	}
	return msg
}
