package paladins

import "strings"

// Language selects which localization champion and item metadata is
// fetched in.
type Language int

// Supported response languages.
const (
	LanguageEnglish    Language = 1
	LanguageGerman     Language = 2
	LanguageFrench     Language = 3
	LanguageChinese    Language = 5
	LanguageSpanish    Language = 9
	LanguagePortuguese Language = 10
	LanguageRussian    Language = 11
	LanguagePolish     Language = 12
	LanguageTurkish    Language = 13
)

// String returns the language's English name.
func (l Language) String() string {
	switch l {
	case LanguageEnglish:
		return "English"
	case LanguageGerman:
		return "German"
	case LanguageFrench:
		return "French"
	case LanguageChinese:
		return "Chinese"
	case LanguageSpanish:
		return "Spanish"
	case LanguagePortuguese:
		return "Portuguese"
	case LanguageRussian:
		return "Russian"
	case LanguagePolish:
		return "Polish"
	case LanguageTurkish:
		return "Turkish"
	default:
		return "Unknown"
	}
}

// Platform represents the platform a player account lives on.
type Platform int

// Known platforms. The numeric values are the portal IDs the API uses.
const (
	PlatformUnknown  Platform = 0
	PlatformPC       Platform = 1
	PlatformSteam    Platform = 5
	PlatformPS4      Platform = 9
	PlatformXbox     Platform = 10
	PlatformFacebook Platform = 12
	PlatformGoogle   Platform = 13
	PlatformMixer    Platform = 14
	PlatformSwitch   Platform = 22
	PlatformDiscord  Platform = 25
	PlatformEpic     Platform = 28
)

// String returns the platform's display name.
func (p Platform) String() string {
	switch p {
	case PlatformPC:
		return "PC"
	case PlatformSteam:
		return "Steam"
	case PlatformPS4:
		return "PS4"
	case PlatformXbox:
		return "Xbox"
	case PlatformFacebook:
		return "Facebook"
	case PlatformGoogle:
		return "Google"
	case PlatformMixer:
		return "Mixer"
	case PlatformSwitch:
		return "Switch"
	case PlatformDiscord:
		return "Discord"
	case PlatformEpic:
		return "Epic Games"
	default:
		return "Unknown"
	}
}

// IsPC reports whether accounts on this platform have unique, PC-style
// names. These platforms share one name lookup endpoint; console platforms
// use gamertag search instead.
func (p Platform) IsPC() bool {
	return p == PlatformPC || p == PlatformSteam || p == PlatformDiscord
}

// Queue represents a match queue.
type Queue int

// Known queues. The numeric values are the queue IDs the API uses.
const (
	QueueUnknown                Queue = 0
	QueueCasualSiege            Queue = 424
	QueueTeamDeathmatch         Queue = 469
	QueueOnslaught              Queue = 452
	QueueCompetitiveKeyboard    Queue = 486
	QueueCompetitiveController  Queue = 428
	QueueShootingRange          Queue = 434
	QueueTrainingSiege          Queue = 425
	QueueTrainingOnslaught      Queue = 453
	QueueTrainingTeamDeathmatch Queue = 470
	QueueTestMaps               Queue = 445
)

// String returns the queue's display name.
func (q Queue) String() string {
	switch q {
	case QueueCasualSiege:
		return "Casual Siege"
	case QueueTeamDeathmatch:
		return "Team Deathmatch"
	case QueueOnslaught:
		return "Onslaught"
	case QueueCompetitiveKeyboard:
		return "Competitive Keyboard"
	case QueueCompetitiveController:
		return "Competitive Controller"
	case QueueShootingRange:
		return "Shooting Range"
	case QueueTrainingSiege:
		return "Training Siege"
	case QueueTrainingOnslaught:
		return "Training Onslaught"
	case QueueTrainingTeamDeathmatch:
		return "Training Team Deathmatch"
	case QueueTestMaps:
		return "Test Maps"
	default:
		return "Unknown"
	}
}

// IsRanked reports whether the queue is a competitive one.
func (q Queue) IsRanked() bool {
	return q == QueueCompetitiveKeyboard || q == QueueCompetitiveController
}

// IsTraining reports whether the queue pits players against bots.
func (q Queue) IsTraining() bool {
	return q == QueueTrainingSiege || q == QueueTrainingOnslaught || q == QueueTrainingTeamDeathmatch
}

// Activity represents a player's current in-game status.
type Activity int

// Player activity states.
const (
	ActivityOffline            Activity = 0
	ActivityInLobby            Activity = 1
	ActivityCharacterSelection Activity = 2
	ActivityInMatch            Activity = 3
	ActivityOnline             Activity = 4
	ActivityUnknown            Activity = 5
)

// String returns the activity's display name.
func (a Activity) String() string {
	switch a {
	case ActivityOffline:
		return "Offline"
	case ActivityInLobby:
		return "In Lobby"
	case ActivityCharacterSelection:
		return "Character Selection"
	case ActivityInMatch:
		return "In Match"
	case ActivityOnline:
		return "Online"
	default:
		return "Unknown"
	}
}

// Alias tables are built once at package init. Lookups are
// case-insensitive and treat spaces, dashes and underscores the same.
var (
	languageAliases = buildAliases(map[string][]string{
		"English":    {"en", "eng"},
		"German":     {"de", "ger"},
		"French":     {"fr", "fre"},
		"Chinese":    {"zh", "chi"},
		"Spanish":    {"es", "spa"},
		"Portuguese": {"pt", "por"},
		"Russian":    {"ru", "rus"},
		"Polish":     {"pl", "pol"},
		"Turkish":    {"tr", "tur"},
	}, map[string]Language{
		"English":    LanguageEnglish,
		"German":     LanguageGerman,
		"French":     LanguageFrench,
		"Chinese":    LanguageChinese,
		"Spanish":    LanguageSpanish,
		"Portuguese": LanguagePortuguese,
		"Russian":    LanguageRussian,
		"Polish":     LanguagePolish,
		"Turkish":    LanguageTurkish,
	})

	platformAliases = buildAliases(map[string][]string{
		"PC":         {"hirez", "standalone"},
		"Steam":      {},
		"PS4":        {"psn", "playstation"},
		"Xbox":       {"xb", "xboxlive", "xbox live", "xboxone", "xbox one", "xbox1", "xbox 1"},
		"Facebook":   {"fb"},
		"Google":     {},
		"Mixer":      {},
		"Switch":     {"nintendo switch"},
		"Discord":    {},
		"Epic Games": {"epic"},
	}, map[string]Platform{
		"PC":         PlatformPC,
		"Steam":      PlatformSteam,
		"PS4":        PlatformPS4,
		"Xbox":       PlatformXbox,
		"Facebook":   PlatformFacebook,
		"Google":     PlatformGoogle,
		"Mixer":      PlatformMixer,
		"Switch":     PlatformSwitch,
		"Discord":    PlatformDiscord,
		"Epic Games": PlatformEpic,
	})

	queueAliases = buildAliases(map[string][]string{
		"Casual Siege":             {"casual", "siege"},
		"Team Deathmatch":          {"deathmatch", "tdm"},
		"Onslaught":                {},
		"Competitive Keyboard":     {"keyboard comp", "keyboard ranked", "kb comp", "kb rank", "kb ranked"},
		"Competitive Controller":   {"controller comp", "controller ranked", "cn comp", "cn rank", "cn ranked"},
		"Shooting Range":           {"range"},
		"Training Siege":           {"bot siege"},
		"Training Onslaught":       {"bot onslaught"},
		"Training Team Deathmatch": {"bot team deathmatch", "bot deathmatch", "bot tdm"},
		"Test Maps":                {"test"},
	}, map[string]Queue{
		"Casual Siege":             QueueCasualSiege,
		"Team Deathmatch":          QueueTeamDeathmatch,
		"Onslaught":                QueueOnslaught,
		"Competitive Keyboard":     QueueCompetitiveKeyboard,
		"Competitive Controller":   QueueCompetitiveController,
		"Shooting Range":           QueueShootingRange,
		"Training Siege":           QueueTrainingSiege,
		"Training Onslaught":       QueueTrainingOnslaught,
		"Training Team Deathmatch": QueueTrainingTeamDeathmatch,
		"Test Maps":                QueueTestMaps,
	})
)

func buildAliases[E ~int](aliases map[string][]string, values map[string]E) map[string]E {
	table := make(map[string]E)
	for name, value := range values {
		table[normalizeAlias(name)] = value
		for _, alias := range aliases[name] {
			table[normalizeAlias(alias)] = value
		}
	}
	return table
}

func normalizeAlias(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

// ParseLanguage resolves a language name or alias ("German", "de").
func ParseLanguage(s string) (Language, bool) {
	l, ok := languageAliases[normalizeAlias(s)]
	return l, ok
}

// ParsePlatform resolves a platform name or alias ("Xbox", "xb", "psn").
func ParsePlatform(s string) (Platform, bool) {
	p, ok := platformAliases[normalizeAlias(s)]
	return p, ok
}

// ParseQueue resolves a queue name or alias ("Casual Siege", "tdm").
func ParseQueue(s string) (Queue, bool) {
	q, ok := queueAliases[normalizeAlias(s)]
	return q, ok
}
