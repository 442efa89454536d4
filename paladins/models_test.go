package paladins

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntStringAcceptsBothForms(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		fails bool
	}{
		{`123`, 123, false},
		{`"456"`, 456, false},
		{`"0"`, 0, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"abc"`, 0, true},
	}

	for _, tt := range tests {
		var v IntString
		err := json.Unmarshal([]byte(tt.input), &v)
		if tt.fails {
			if err == nil {
				t.Errorf("unmarshal %s: expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("unmarshal %s: %v", tt.input, err)
			continue
		}
		if v.Int64() != tt.want {
			t.Errorf("unmarshal %s = %d, want %d", tt.input, v.Int64(), tt.want)
		}
	}
}

func TestTimestampParsesAPIFormat(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"4/12/2021 7:05:09 AM"`), &ts))
	assert.Equal(t, time.Date(2021, time.April, 12, 7, 5, 9, 0, time.UTC), ts.Time)

	require.NoError(t, json.Unmarshal([]byte(`"12/1/2020 11:59:59 PM"`), &ts))
	assert.Equal(t, time.Date(2020, time.December, 1, 23, 59, 59, 0, time.UTC), ts.Time)

	// Zero-padded fields parse too.
	require.NoError(t, json.Unmarshal([]byte(`"04/02/2021 07:05:09 PM"`), &ts))
	assert.Equal(t, time.Date(2021, time.April, 2, 19, 5, 9, 0, time.UTC), ts.Time)
}

func TestTimestampEmptyIsZero(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`""`), &ts))
	assert.True(t, ts.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestCleanMapName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"LIVE Jaguar Falls (Siege)", "Jaguar Falls"},
		{"Ranked Frog Isle", "Frog Isle"},
		{"Practice Shooting Range", "Shooting Range"},
		{"WIP Snowfall Junction (TDM)", "Snowfall Junction"},
		{"Trade District (Onslaught)", "Trade District"},
		{"Dragon Arena (KOTH)", "Dragon Arena"},
		{"Fish Market", "Fish Market"},
		{"  Stone Keep  ", "Stone Keep"},
	}

	for _, tt := range tests {
		if got := CleanMapName(tt.input); got != tt.want {
			t.Errorf("CleanMapName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPlayerDecode(t *testing.T) {
	payload := `{
		"ret_msg": null,
		"Id": 5001,
		"ActivePlayerId": 5001,
		"Name": "SomePlayer",
		"hz_player_name": "CrossPlatformName",
		"hz_gamer_tag": "",
		"Platform": "hirez",
		"Level": 123,
		"MasteryLevel": 88,
		"Region": "Europe",
		"Created_Datetime": "4/12/2018 7:05:09 AM",
		"Last_Login_Datetime": "4/12/2021 9:00:00 PM",
		"HoursPlayed": 1000,
		"Wins": 600,
		"Losses": 400,
		"Leaves": 3,
		"Total_Achievements": 52,
		"RankedKBM": {"Season": 4, "Tier": 15, "Points": 42, "Wins": 30, "Losses": 20}
	}`

	var p Player
	require.NoError(t, json.Unmarshal([]byte(payload), &p))
	assert.Equal(t, int64(5001), p.ID)
	assert.Equal(t, "CrossPlatformName", p.DisplayName())
	assert.Equal(t, 2018, p.Created.Year())
	assert.Equal(t, 15, p.RankedKeyboard.Tier)

	p.HirezName = ""
	assert.Equal(t, "SomePlayer", p.DisplayName())
}

func TestServerStatusHelpers(t *testing.T) {
	entries := []PlatformStatus{
		{Platform: "pc", Environment: "live", Status: "UP"},
		{Platform: "ps4", Environment: "live", Status: "UP", LimitedAccess: true},
		{Platform: "pc", Environment: "pts", Status: "DOWN"},
	}
	status := newServerStatus(entries)

	// The PTS row is renamed after its environment so platform names stay
	// unique.
	pts, ok := status.Platform("pts")
	require.True(t, ok)
	assert.Equal(t, "DOWN", pts.Status)
	assert.False(t, pts.Up())

	pc, ok := status.Platform("PC")
	require.True(t, ok)
	assert.True(t, pc.Up())

	assert.False(t, status.AllUp())
	assert.True(t, status.LimitedAccess())

	_, ok = status.Platform("switch")
	assert.False(t, ok)
}

func TestServerStatusEqualIgnoresFetchTime(t *testing.T) {
	entries := []PlatformStatus{
		{Platform: "pc", Environment: "live", Status: "UP", Version: "5.1"},
	}
	a := newServerStatus(entries)
	b := newServerStatus(entries)
	b.Timestamp = b.Timestamp.Add(time.Hour)
	assert.True(t, a.Equal(b))

	changed := newServerStatus([]PlatformStatus{
		{Platform: "pc", Environment: "live", Status: "DOWN", Version: "5.1"},
	})
	assert.False(t, a.Equal(changed))

	upgraded := newServerStatus([]PlatformStatus{
		{Platform: "pc", Environment: "live", Status: "UP", Version: "5.2"},
	})
	assert.False(t, a.Equal(upgraded))

	assert.False(t, a.Equal(nil))
	var nilStatus *ServerStatus
	assert.True(t, nilStatus.Equal(nil))
}

func TestNewMatchGroupsRows(t *testing.T) {
	rows := []MatchPlayer{
		{MatchID: 987, QueueID: 424, MapName: "LIVE Frog Isle (Siege)", DurationSeconds: 1200, TaskForce: 1, WinningTaskForce: 2, Team1Score: 2, Team2Score: 4},
		{MatchID: 987, QueueID: 424, TaskForce: 2, WinningTaskForce: 2},
	}
	m := newMatch(rows)
	assert.Equal(t, int64(987), m.ID)
	assert.Equal(t, QueueCasualSiege, m.Queue)
	assert.Equal(t, "Frog Isle", m.MapName)
	assert.Equal(t, 20*time.Minute, m.Duration)
	assert.Equal(t, 2, m.WinningTeam())
	assert.Len(t, m.Players, 2)
	assert.False(t, m.Players[0].Won())
	assert.True(t, m.Players[1].Won())
}

func TestHistoryMatchHelpers(t *testing.T) {
	h := HistoryMatch{WinStatus: "Win", QueueID: 469, Kills: 10, Deaths: 2, Assists: 5}
	assert.True(t, h.Won())
	assert.Equal(t, QueueTeamDeathmatch, h.Queue())

	h.WinStatus = "Loss"
	assert.False(t, h.Won())
}

func TestPlayerStatusActivity(t *testing.T) {
	tests := []struct {
		status int
		want   Activity
	}{
		{0, ActivityOffline},
		{3, ActivityInMatch},
		{5, ActivityUnknown},
		{42, ActivityUnknown},
		{-1, ActivityUnknown},
	}

	for _, tt := range tests {
		s := PlayerStatus{Status: tt.status}
		if got := s.Activity(); got != tt.want {
			t.Errorf("Activity() with status %d = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestChampionInfoLookups(t *testing.T) {
	info := newChampionInfo(LanguageEnglish,
		[]Champion{
			{ID: 2285, Name: "Io"},
			{ID: 2056, Name: "Makoa"},
		},
		[]Device{
			{ID: 14162, Name: "Deft Hands"},
			{ID: 13076, Name: "Gourmet"},
		})

	c, ok := info.ChampionByID(2056)
	require.True(t, ok)
	assert.Equal(t, "Makoa", c.Name)

	c, ok = info.ChampionByName("io")
	require.True(t, ok)
	assert.Equal(t, int64(2285), c.ID)

	d, ok := info.DeviceByName("DEFT HANDS")
	require.True(t, ok)
	assert.Equal(t, int64(14162), d.ID)

	_, ok = info.ChampionByName("Androxus")
	assert.False(t, ok)
	_, ok = info.DeviceByID(1)
	assert.False(t, ok)
}

func TestChampionAbilities(t *testing.T) {
	c := Champion{
		Ability1: Ability{ID: 1},
		Ability2: Ability{ID: 2},
		Ability3: Ability{ID: 3},
		Ability4: Ability{ID: 4},
		Ability5: Ability{ID: 5},
		Latest:   "y",
	}
	abilities := c.Abilities()
	require.Len(t, abilities, 5)
	for i, a := range abilities {
		assert.Equal(t, int64(i+1), a.ID)
	}
	assert.True(t, c.IsLatest())

	assert.False(t, c.InFreeRotation())
	c.FreeRotation = "true"
	assert.True(t, c.InFreeRotation())
}

func TestPrivateErrorParsing(t *testing.T) {
	perr, ok := privateError("Player Privacy Flag set for: playerIdType=9; playerId=12345; playerIdStr=ConsoleName")
	require.True(t, ok)
	assert.Equal(t, int64(12345), perr.PlayerID)
	assert.Equal(t, PlatformPS4, perr.Platform)
	assert.ErrorIs(t, perr, ErrPrivate)
	assert.Contains(t, perr.Error(), "12345")

	_, ok = privateError("Player does not exist")
	assert.False(t, ok)
}
