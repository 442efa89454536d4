package paladins

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// apiTimeLayout matches the M/D/YYYY h:mm:ss AM timestamps the API embeds
// in responses. All of them are UTC.
const apiTimeLayout = "1/2/2006 3:04:05 PM"

// IntString is an integer the API serializes inconsistently: some
// endpoints send it as a JSON number, others as a quoted string.
type IntString int64

func (i *IntString) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = 0
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing %q as integer: %w", data, err)
	}
	*i = IntString(v)
	return nil
}

// Int64 returns the value as a plain int64.
func (i IntString) Int64() int64 { return int64(i) }

// Timestamp decodes the API's timestamp format. Empty strings decode to
// the zero time.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.ParseInLocation(apiTimeLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// PatchInfo is the response of the getpatchinfo endpoint.
type PatchInfo struct {
	RetMsg  string `json:"ret_msg"`
	Version string `json:"version_string"`
}

// PlatformStatus is one platform's entry in the server status response.
type PlatformStatus struct {
	RetMsg        string    `json:"ret_msg"`
	EntryDatetime Timestamp `json:"entry_datetime"`
	Environment   string    `json:"environment"`
	LimitedAccess bool      `json:"limited_access"`
	Platform      string    `json:"platform"`
	Status        string    `json:"status"`
	Version       string    `json:"version"`
}

// Up reports whether the platform is reachable.
func (p PlatformStatus) Up() bool { return p.Status == "UP" }

// ServerStatus aggregates the per-platform server statuses from one poll.
type ServerStatus struct {
	// Timestamp is when the statuses were fetched, not when the API
	// recorded them.
	Timestamp time.Time
	Statuses  []PlatformStatus
}

// newServerStatus normalizes raw status entries. The PTS environment
// reports its platform as "pc", so it is renamed after its environment to
// keep platform names unique.
func newServerStatus(entries []PlatformStatus) *ServerStatus {
	statuses := make([]PlatformStatus, 0, len(entries))
	for _, entry := range entries {
		if entry.Environment != "live" {
			entry.Platform = entry.Environment
		}
		statuses = append(statuses, entry)
	}
	return &ServerStatus{Timestamp: time.Now().UTC(), Statuses: statuses}
}

// AllUp reports whether every platform is up.
func (s *ServerStatus) AllUp() bool {
	for _, st := range s.Statuses {
		if !st.Up() {
			return false
		}
	}
	return true
}

// LimitedAccess reports whether any platform has limited access.
func (s *ServerStatus) LimitedAccess() bool {
	for _, st := range s.Statuses {
		if st.LimitedAccess {
			return true
		}
	}
	return false
}

// Platform returns the status entry for the named platform.
func (s *ServerStatus) Platform(name string) (PlatformStatus, bool) {
	name = strings.ToLower(name)
	for _, st := range s.Statuses {
		if strings.ToLower(st.Platform) == name {
			return st, true
		}
	}
	return PlatformStatus{}, false
}

// Equal reports whether two polls observed the same state. Fetch
// timestamps are ignored.
func (s *ServerStatus) Equal(other *ServerStatus) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Statuses) != len(other.Statuses) {
		return false
	}
	for i, st := range s.Statuses {
		o := other.Statuses[i]
		if st.Platform != o.Platform || st.Status != o.Status || st.LimitedAccess != o.LimitedAccess || st.Version != o.Version {
			return false
		}
	}
	return true
}

// RankedStats is a player's standing in one ranked queue.
type RankedStats struct {
	Season int `json:"Season"`
	Tier   int `json:"Tier"`
	Points int `json:"Points"`
	Wins   int `json:"Wins"`
	Losses int `json:"Losses"`
	Leaves int `json:"Leaves"`
}

// Player is a full player profile from getplayer or getplayerbatch.
type Player struct {
	RetMsg           string      `json:"ret_msg"`
	ID               int64       `json:"Id"`
	ActivePlayerID   int64       `json:"ActivePlayerId"`
	Name             string      `json:"Name"`
	HirezName        string      `json:"hz_player_name"`
	GamerTag         string      `json:"hz_gamer_tag"`
	Platform         string      `json:"Platform"`
	Level            int         `json:"Level"`
	MasteryLevel     int         `json:"MasteryLevel"`
	Region           string      `json:"Region"`
	Title            string      `json:"Title"`
	AvatarID         int64       `json:"AvatarId"`
	AvatarURL        string      `json:"AvatarURL"`
	Created          Timestamp   `json:"Created_Datetime"`
	LastLogin        Timestamp   `json:"Last_Login_Datetime"`
	HoursPlayed      int         `json:"HoursPlayed"`
	MinutesPlayed    int         `json:"MinutesPlayed"`
	Wins             int         `json:"Wins"`
	Losses           int         `json:"Losses"`
	Leaves           int         `json:"Leaves"`
	Achievements     int         `json:"Total_Achievements"`
	Worshippers      int         `json:"Total_Worshippers"`
	TotalXP          int64       `json:"Total_XP"`
	RankedKeyboard   RankedStats `json:"RankedKBM"`
	RankedController RankedStats `json:"RankedController"`
}

// DisplayName prefers the cross-platform Hi-Rez name over the portal
// name, which consoles leave empty or duplicate.
func (p *Player) DisplayName() string {
	if p.HirezName != "" {
		return p.HirezName
	}
	return p.Name
}

// playerSearchEntry is the raw shape shared by the player lookup and
// search endpoints.
type playerSearchEntry struct {
	RetMsg      string    `json:"ret_msg"`
	Name        string    `json:"Name"`
	HirezName   string    `json:"hz_player_name"`
	PlayerID    IntString `json:"player_id"`
	PortalID    IntString `json:"portal_id"`
	PrivacyFlag string    `json:"privacy_flag"`
}

func (e playerSearchEntry) partial() PartialPlayer {
	name := e.HirezName
	if name == "" {
		name = e.Name
	}
	return PartialPlayer{
		ID:       e.PlayerID.Int64(),
		Name:     name,
		Platform: Platform(e.PortalID),
		Private:  e.PrivacyFlag == "y",
	}
}

// PartialPlayer is the slim player reference returned by the search and
// platform lookup endpoints. Private profiles never resolve further than
// this.
type PartialPlayer struct {
	ID       int64
	Name     string
	Platform Platform
	Private  bool
}

// PlayerStatus is the response of the getplayerstatus endpoint.
type PlayerStatus struct {
	RetMsg     string    `json:"ret_msg"`
	MatchID    int64     `json:"Match"`
	QueueID    IntString `json:"match_queue_id"`
	Status     int       `json:"status"`
	StatusText string    `json:"status_string"`
}

// Activity maps the numeric status to its activity state.
func (s *PlayerStatus) Activity() Activity {
	if s.Status < int(ActivityOffline) || s.Status > int(ActivityUnknown) {
		return ActivityUnknown
	}
	return Activity(s.Status)
}

// Queue returns the queue of the match the player is in, if any.
func (s *PlayerStatus) Queue() Queue { return Queue(s.QueueID) }

// LivePlayer is one participant of an ongoing match, from
// getmatchplayerdetails.
type LivePlayer struct {
	RetMsg        string    `json:"ret_msg"`
	MatchID       IntString `json:"Match"`
	QueueID       IntString `json:"Queue"`
	PlayerID      IntString `json:"playerId"`
	PlayerName    string    `json:"playerName"`
	Region        string    `json:"playerRegion"`
	AccountLevel  int       `json:"Account_Level"`
	MasteryLevel  int       `json:"Mastery_Level"`
	ChampionID    int64     `json:"ChampionId"`
	ChampionLevel int       `json:"ChampionLevel"`
	Skin          string    `json:"Skin"`
	SkinID        int64     `json:"SkinId"`
	TaskForce     int       `json:"taskForce"`
	Tier          int       `json:"Tier"`
	MapName       string    `json:"mapGame"`
}

// MatchPlayer is one participant's row of a finished match, from
// getmatchdetails or getmatchdetailsbatch.
type MatchPlayer struct {
	RetMsg           string    `json:"ret_msg"`
	MatchID          int64     `json:"Match"`
	QueueID          IntString `json:"match_queue_id"`
	Entry            Timestamp `json:"Entry_Datetime"`
	MapName          string    `json:"Map_Game"`
	Region           string    `json:"Region"`
	PlayerID         IntString `json:"playerId"`
	PlayerName       string    `json:"playerName"`
	Platform         string    `json:"Platform"`
	PartyID          int64     `json:"PartyId"`
	AccountLevel     int       `json:"Account_Level"`
	MasteryLevel     int       `json:"Mastery_Level"`
	ChampionID       int64     `json:"ChampionId"`
	Champion         string    `json:"Reference_Name"`
	ChampionLevel    int       `json:"Champion_Level"`
	Skin             string    `json:"Skin"`
	SkinID           int64     `json:"SkinId"`
	Kills            int       `json:"Kills_Player"`
	Deaths           int       `json:"Deaths"`
	Assists          int       `json:"Assists"`
	KillingSpree     int       `json:"Killing_Spree"`
	Damage           int64     `json:"Damage_Player"`
	DamageTaken      int64     `json:"Damage_Taken"`
	DamageMitigated  int64     `json:"Damage_Mitigated"`
	Healing          int64     `json:"Healing"`
	SelfHealing      int64     `json:"Healing_Player_Self"`
	ShieldingGranted int64     `json:"Damage_Done_In_Hand"`
	GoldEarned       int64     `json:"Gold_Earned"`
	ObjectiveTime    int       `json:"Objective_Assists"`
	TaskForce        int       `json:"TaskForce"`
	WinningTaskForce int       `json:"Winning_TaskForce"`
	WinStatus        string    `json:"Win_Status"`
	Team1Score       int       `json:"Team1Score"`
	Team2Score       int       `json:"Team2Score"`
	DurationSeconds  int       `json:"Time_In_Match_Seconds"`
}

// Won reports whether the player was on the winning team.
func (p *MatchPlayer) Won() bool { return p.TaskForce == p.WinningTaskForce }

// KDA returns kills, deaths and assists as "K/D/A".
func (p *MatchPlayer) KDA() string {
	return fmt.Sprintf("%d/%d/%d", p.Kills, p.Deaths, p.Assists)
}

// Match groups the per-player rows of one finished match.
type Match struct {
	ID         int64
	Queue      Queue
	Started    time.Time
	Duration   time.Duration
	MapName    string
	Team1Score int
	Team2Score int
	Players    []MatchPlayer
}

// newMatch builds a match from its player rows. The rows must all belong
// to the same match.
func newMatch(players []MatchPlayer) Match {
	m := Match{Players: players}
	if len(players) == 0 {
		return m
	}
	first := players[0]
	m.ID = first.MatchID
	m.Queue = Queue(first.QueueID)
	m.Started = first.Entry.Time
	m.Duration = time.Duration(first.DurationSeconds) * time.Second
	m.MapName = CleanMapName(first.MapName)
	m.Team1Score = first.Team1Score
	m.Team2Score = first.Team2Score
	return m
}

// WinningTeam returns 1 or 2, or 0 for matches without rows.
func (m *Match) WinningTeam() int {
	if len(m.Players) == 0 {
		return 0
	}
	return m.Players[0].WinningTaskForce
}

// HistoryMatch is one row of a player's recent match history, from
// getmatchhistory.
type HistoryMatch struct {
	RetMsg           string    `json:"ret_msg"`
	MatchID          int64     `json:"Match"`
	QueueID          IntString `json:"Match_Queue_Id"`
	QueueName        string    `json:"Queue"`
	Time             Timestamp `json:"Match_Time"`
	MapName          string    `json:"Map_Game"`
	Region           string    `json:"Region"`
	PlayerID         IntString `json:"playerId"`
	PlayerName       string    `json:"playerName"`
	Champion         string    `json:"Champion"`
	ChampionID       int64     `json:"ChampionId"`
	Skin             string    `json:"Skin"`
	SkinID           int64     `json:"SkinId"`
	Kills            int       `json:"Kills"`
	Deaths           int       `json:"Deaths"`
	Assists          int       `json:"Assists"`
	KillingSpree     int       `json:"Killing_Spree"`
	MultikillMax     int       `json:"Multi_kill_Max"`
	Damage           int64     `json:"Damage"`
	DamageTaken      int64     `json:"Damage_Taken"`
	DamageMitigated  int64     `json:"Damage_Mitigated"`
	Healing          int64     `json:"Healing"`
	SelfHealing      int64     `json:"Healing_Player_Self"`
	Gold             int64     `json:"Gold"`
	ObjectiveTime    int       `json:"Objective_Assists"`
	TaskForce        int       `json:"TaskForce"`
	WinningTaskForce int       `json:"Winning_TaskForce"`
	WinStatus        string    `json:"Win_Status"`
	Team1Score       int       `json:"Team1Score"`
	Team2Score       int       `json:"Team2Score"`
	DurationSeconds  int       `json:"Time_In_Match_Seconds"`
}

// Won reports whether the player won the match.
func (h *HistoryMatch) Won() bool { return h.WinStatus == "Win" }

// Queue returns the match's queue.
func (h *HistoryMatch) Queue() Queue { return Queue(h.QueueID) }

// Ability is one of a champion's five abilities.
type Ability struct {
	ID              int64  `json:"Id"`
	Summary         string `json:"Summary"`
	Description     string `json:"Description"`
	DamageType      string `json:"damageType"`
	RechargeSeconds int    `json:"rechargeSeconds"`
	URL             string `json:"URL"`
}

// Champion is one champion's metadata from getchampions.
type Champion struct {
	RetMsg         string  `json:"ret_msg"`
	ID             int64   `json:"id"`
	Name           string  `json:"Name"`
	Title          string  `json:"Title"`
	Roles          string  `json:"Roles"`
	Health         int     `json:"Health"`
	Speed          int     `json:"Speed"`
	Lore           string  `json:"Lore"`
	Pantheon       string  `json:"Pantheon"`
	IconURL        string  `json:"ChampionIcon_URL"`
	FreeRotation   string  `json:"OnFreeWeeklyRotation"`
	Latest         string  `json:"latestChampion"`
	Ability1       Ability `json:"Ability_1"`
	Ability2       Ability `json:"Ability_2"`
	Ability3       Ability `json:"Ability_3"`
	Ability4       Ability `json:"Ability_4"`
	Ability5       Ability `json:"Ability_5"`
}

// IsLatest reports whether this is the most recently released champion.
func (c *Champion) IsLatest() bool { return c.Latest == "y" }

// InFreeRotation reports whether the champion is on the weekly free
// rotation. The API encodes false as an empty string.
func (c *Champion) InFreeRotation() bool { return c.FreeRotation == "true" }

// Abilities returns the five abilities in order.
func (c *Champion) Abilities() []Ability {
	return []Ability{c.Ability1, c.Ability2, c.Ability3, c.Ability4, c.Ability5}
}

// Device is a card, talent or shop item from getitems.
type Device struct {
	RetMsg          string `json:"ret_msg"`
	ID              int64  `json:"ItemId"`
	Name            string `json:"DeviceName"`
	Description     string `json:"Description"`
	ShortDesc       string `json:"ShortDesc"`
	Price           int    `json:"Price"`
	IconID          int64  `json:"IconId"`
	IconURL         string `json:"itemIcon_URL"`
	ChampionID      int64  `json:"champion_id"`
	Type            string `json:"item_type"`
	RechargeSeconds int    `json:"recharge_seconds"`
	TalentLevel     int    `json:"talent_reward_level"`
}

// ChampionInfo bundles the champion and item metadata for one language,
// with lookup indexes built once on construction.
type ChampionInfo struct {
	Language  Language
	Champions []Champion
	Devices   []Device

	championsByID   map[int64]*Champion
	championsByName map[string]*Champion
	devicesByID     map[int64]*Device
	devicesByName   map[string]*Device
}

func newChampionInfo(lang Language, champions []Champion, devices []Device) *ChampionInfo {
	ci := &ChampionInfo{
		Language:        lang,
		Champions:       champions,
		Devices:         devices,
		championsByID:   make(map[int64]*Champion, len(champions)),
		championsByName: make(map[string]*Champion, len(champions)),
		devicesByID:     make(map[int64]*Device, len(devices)),
		devicesByName:   make(map[string]*Device, len(devices)),
	}
	for i := range champions {
		c := &ci.Champions[i]
		ci.championsByID[c.ID] = c
		ci.championsByName[strings.ToLower(c.Name)] = c
	}
	for i := range devices {
		d := &ci.Devices[i]
		ci.devicesByID[d.ID] = d
		ci.devicesByName[strings.ToLower(d.Name)] = d
	}
	return ci
}

// ChampionByID returns the champion with the given ID.
func (ci *ChampionInfo) ChampionByID(id int64) (*Champion, bool) {
	c, ok := ci.championsByID[id]
	return c, ok
}

// ChampionByName returns the champion with the given name,
// case-insensitively.
func (ci *ChampionInfo) ChampionByName(name string) (*Champion, bool) {
	c, ok := ci.championsByName[strings.ToLower(name)]
	return c, ok
}

// DeviceByID returns the device with the given ID.
func (ci *ChampionInfo) DeviceByID(id int64) (*Device, bool) {
	d, ok := ci.devicesByID[id]
	return d, ok
}

// DeviceByName returns the device with the given name, case-insensitively.
func (ci *ChampionInfo) DeviceByName(name string) (*Device, bool) {
	d, ok := ci.devicesByName[strings.ToLower(name)]
	return d, ok
}

// matchIDEntry is one row of getmatchidsbyqueue.
type matchIDEntry struct {
	RetMsg     string    `json:"ret_msg"`
	ActiveFlag string    `json:"Active_Flag"`
	Entry      Timestamp `json:"Entry_Datetime"`
	MatchID    IntString `json:"Match"`
}

// mapNamePrefixes and mapNameSuffixes are the decorations the API glues
// onto map names depending on the queue.
var (
	mapNamePrefixes = []string{"LIVE ", "Ranked ", "Practice ", "WIP "}
	mapNameSuffixes = []string{" (Siege)", " (Onslaught)", " (TDM)", " (KOTH)"}
)

// CleanMapName strips the queue decorations from a map name, so the same
// map compares equal across queues.
func CleanMapName(name string) string {
	name = strings.TrimSpace(name)
	for _, prefix := range mapNamePrefixes {
		name = strings.TrimPrefix(name, prefix)
	}
	for _, suffix := range mapNameSuffixes {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}
