package paladins

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/rezstats/batch"
	"github.com/s0up4200/rezstats/cache"
	"github.com/s0up4200/rezstats/hirez"
)

// Batch sizes the API accepts per request.
const (
	PlayersBatchSize = 20
	MatchesBatchSize = 10
)

// Default cache lifetimes for the two metadata caches.
const (
	DefaultChampionTTL = 12 * time.Hour
	DefaultStatusTTL   = time.Minute
)

// API defines the part of the low-level client the typed operations need.
// Satisfied by *hirez.Client.
type API interface {
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
	Ping(ctx context.Context) error
	TestSession(ctx context.Context) (string, error)
	Close() error
}

var _ API = (*hirez.Client)(nil)

// OperationsOption configures an Operations instance.
type OperationsOption func(*operationsConfig)

type operationsConfig struct {
	language    Language
	championTTL time.Duration
	statusTTL   time.Duration
}

// WithDefaultLanguage sets the language used when operations are called
// without an explicit one.
func WithDefaultLanguage(lang Language) OperationsOption {
	return func(cfg *operationsConfig) {
		cfg.language = lang
	}
}

// WithChampionTTL overrides how long champion and item metadata is cached.
func WithChampionTTL(ttl time.Duration) OperationsOption {
	return func(cfg *operationsConfig) {
		if ttl > 0 {
			cfg.championTTL = ttl
		}
	}
}

// WithStatusTTL overrides how long the server status is cached.
func WithStatusTTL(ttl time.Duration) OperationsOption {
	return func(cfg *operationsConfig) {
		if ttl > 0 {
			cfg.statusTTL = ttl
		}
	}
}

// Operations provides the typed API operations on top of the low-level
// request engine, backed by the champion metadata and server status
// caches.
type Operations struct {
	api      API
	logger   zerolog.Logger
	language Language

	champions *cache.Cache[*ChampionInfo]
	status    *cache.Cache[*ServerStatus]
}

// NewOperations creates an Operations instance around the given client.
func NewOperations(api API, logger zerolog.Logger, opts ...OperationsOption) *Operations {
	cfg := operationsConfig{
		language:    LanguageEnglish,
		championTTL: DefaultChampionTTL,
		statusTTL:   DefaultStatusTTL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Operations{
		api:      api,
		logger:   logger,
		language: cfg.language,
		champions: cache.New[*ChampionInfo](cfg.championTTL, logger,
			cache.WithEmptyCheck(func(ci *ChampionInfo) bool {
				return ci == nil || len(ci.Champions) == 0 || len(ci.Devices) == 0
			})),
		status: cache.New[*ServerStatus](cfg.statusTTL, logger,
			cache.WithEmptyCheck(func(s *ServerStatus) bool {
				return s == nil || len(s.Statuses) == 0
			})),
	}
}

// DefaultLanguage returns the language used when none is passed
// explicitly.
func (o *Operations) DefaultLanguage() Language { return o.language }

// Ping checks API availability without touching the session or the daily
// request limit.
func (o *Operations) Ping(ctx context.Context) error {
	return o.api.Ping(ctx)
}

// TestSession verifies the credentials by establishing a session and
// returning the API's confirmation message.
func (o *Operations) TestSession(ctx context.Context) (string, error) {
	return o.api.TestSession(ctx)
}

// Close releases the underlying client. Further calls fail.
func (o *Operations) Close() error {
	return o.api.Close()
}

// request forwards to the engine and maps the one soft error every
// endpoint can return: the exhausted daily request limit.
func (o *Operations) request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	raw, err := o.api.Request(ctx, method, params...)
	if err != nil {
		return nil, err
	}
	if hirez.Message(raw) == limitReachedMsg {
		return nil, ErrLimitReached
	}
	return raw, nil
}

// decodeList decodes a JSON array response into typed entries.
func decodeList[T any](raw json.RawMessage, method string) ([]T, error) {
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", method, err)
	}
	return list, nil
}

// PatchVersion returns the current game version string.
func (o *Operations) PatchVersion(ctx context.Context) (string, error) {
	raw, err := o.request(ctx, "getpatchinfo")
	if err != nil {
		return "", err
	}
	var info PatchInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return "", fmt.Errorf("decoding getpatchinfo response: %w", err)
	}
	if info.Version == "" {
		return "", notFound("patch version")
	}
	return info.Version, nil
}

// ServerStatus returns the current platform statuses. Results are cached
// for a short interval; set force to bypass the cache. A fetch that fails
// while a previous result exists returns the previous result, so a flaky
// status endpoint doesn't mask an otherwise reachable API.
func (o *Operations) ServerStatus(ctx context.Context, force bool) (*ServerStatus, error) {
	fetch := func(ctx context.Context) (*ServerStatus, error) {
		raw, err := o.request(ctx, "gethirezserverstatus")
		if err != nil {
			return nil, err
		}
		entries, err := decodeList[PlatformStatus](raw, "gethirezserverstatus")
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 && entries[0].RetMsg != "" {
			entries = nil
		}
		return newServerStatus(entries), nil
	}

	const key = "server_status"
	var (
		status *ServerStatus
		err    error
	)
	if force {
		status, err = o.status.ForceRefresh(ctx, key, fetch)
	} else {
		status, err = o.status.GetOrFetch(ctx, key, fetch)
	}
	if err != nil {
		if errors.Is(err, cache.ErrNoData) {
			return nil, notFound("server status")
		}
		return nil, err
	}
	return status, nil
}

// ChampionInfo returns the champion and item metadata for the given
// language, fetching both payloads concurrently on a cache miss. The
// result is cached per language and only replaced when both payloads come
// back non-empty.
func (o *Operations) ChampionInfo(ctx context.Context, lang Language, force bool) (*ChampionInfo, error) {
	if lang == 0 {
		lang = o.language
	}
	fetch := func(ctx context.Context) (*ChampionInfo, error) {
		var (
			champions []Champion
			devices   []Device
		)
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			raw, err := o.request(ctx, "getchampions", int(lang))
			if err != nil {
				return err
			}
			champions, err = decodeList[Champion](raw, "getchampions")
			return err
		})
		g.Go(func() error {
			raw, err := o.request(ctx, "getitems", int(lang))
			if err != nil {
				return err
			}
			devices, err = decodeList[Device](raw, "getitems")
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		o.logger.Debug().
			Str("language", lang.String()).
			Int("champions", len(champions)).
			Int("devices", len(devices)).
			Msg("Fetched champion metadata")
		return newChampionInfo(lang, champions, devices), nil
	}

	key := strconv.Itoa(int(lang))
	var (
		info *ChampionInfo
		err  error
	)
	if force {
		info, err = o.champions.ForceRefresh(ctx, key, fetch)
	} else {
		info, err = o.champions.GetOrFetch(ctx, key, fetch)
	}
	if err != nil {
		if errors.Is(err, cache.ErrNoData) {
			return nil, notFound("champion information")
		}
		return nil, err
	}
	return info, nil
}

// GetPlayer fetches a player profile by player ID or, for PC players, by
// name. Returns ErrPrivate (carrying a *PrivateError) when the profile's
// privacy flag is set, and ErrNotFound when no such player exists.
func (o *Operations) GetPlayer(ctx context.Context, player string) (*Player, error) {
	player = strings.TrimSpace(player)
	if player == "" || player == "0" {
		return nil, notFound("player")
	}
	raw, err := o.request(ctx, "getplayer", player)
	if err != nil {
		return nil, err
	}
	list, err := decodeList[Player](raw, "getplayer")
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, notFound("player")
	}
	p := list[0]
	if p.RetMsg != "" {
		if perr, ok := privateError(p.RetMsg); ok {
			return nil, perr
		}
		return nil, notFound("player")
	}
	return &p, nil
}

// GetPlayers fetches multiple player profiles by their IDs, one request
// per 20 unique IDs. Zero and duplicate IDs are dropped, private profiles
// are omitted, and the returned order follows the input order.
func (o *Operations) GetPlayers(ctx context.Context, ids []int64) ([]Player, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	o.logger.Debug().Int("players", len(ids)).Msg("Fetching players in batches")
	var players []Player
	for _, chunkIDs := range batch.Chunks(ids, PlayersBatchSize) {
		raw, err := o.request(ctx, "getplayerbatch", joinIDs(chunkIDs))
		if err != nil {
			return nil, err
		}
		list, err := decodeList[Player](raw, "getplayerbatch")
		if err != nil {
			return nil, err
		}
		chunkPlayers := list[:0]
		for _, p := range list {
			if p.RetMsg != "" {
				continue
			}
			chunkPlayers = append(chunkPlayers, p)
		}
		batch.Reorder(chunkPlayers, chunkIDs, func(p Player) int64 { return p.ID })
		players = append(players, chunkPlayers...)
	}
	return players, nil
}

// SearchPlayers looks up players by name. With exact set and a known
// platform, the platform's dedicated lookup endpoint is used: direct name
// lookup for PC-style platforms, gamertag search for consoles. Otherwise
// all platforms are searched and, with exact set, filtered down to
// case-insensitive whole-name matches. Private profiles are included with
// their Private flag set.
func (o *Operations) SearchPlayers(ctx context.Context, name string, platform Platform, exact bool) ([]PartialPlayer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, notFound("player")
	}
	var (
		entries []playerSearchEntry
		err     error
	)
	switch {
	case exact && platform != PlatformUnknown:
		var raw json.RawMessage
		if platform.IsPC() {
			raw, err = o.request(ctx, "getplayeridbyname", name)
		} else {
			raw, err = o.request(ctx, "getplayeridsbygamertag", int(platform), name)
		}
		if err != nil {
			return nil, err
		}
		entries, err = decodeList[playerSearchEntry](raw, "player lookup")
		if err != nil {
			return nil, err
		}
	default:
		raw, rerr := o.request(ctx, "searchplayers", name)
		if rerr != nil {
			return nil, rerr
		}
		list, derr := decodeList[playerSearchEntry](raw, "searchplayers")
		if derr != nil {
			return nil, derr
		}
		lowered := strings.ToLower(name)
		for _, e := range list {
			if e.HirezName != "" {
				e.Name = e.HirezName
			}
			if exact && strings.ToLower(e.Name) != lowered {
				continue
			}
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, notFound("player")
	}
	players := make([]PartialPlayer, 0, len(entries))
	for _, e := range entries {
		players = append(players, e.partial())
	}
	return players, nil
}

// PlayerFromPlatform resolves the player linked to a platform-specific
// account ID, such as a SteamID64 or Discord user ID. The API does not
// disclose the player name on this endpoint.
func (o *Operations) PlayerFromPlatform(ctx context.Context, platformID int64, platform Platform) (*PartialPlayer, error) {
	raw, err := o.request(ctx, "getplayeridbyportaluserid", int(platform), platformID)
	if err != nil {
		return nil, err
	}
	entries, err := decodeList[playerSearchEntry](raw, "getplayeridbyportaluserid")
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, notFound("linked profile")
	}
	p := entries[0].partial()
	return &p, nil
}

// GetPlayerStatus returns a player's current online status.
func (o *Operations) GetPlayerStatus(ctx context.Context, playerID int64) (*PlayerStatus, error) {
	if playerID == 0 {
		return nil, notFound("player")
	}
	raw, err := o.request(ctx, "getplayerstatus", playerID)
	if err != nil {
		return nil, err
	}
	list, err := decodeList[PlayerStatus](raw, "getplayerstatus")
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, notFound("player status")
	}
	return &list[0], nil
}

// GetLivePlayers returns the participants of an ongoing match.
func (o *Operations) GetLivePlayers(ctx context.Context, matchID int64) ([]LivePlayer, error) {
	raw, err := o.request(ctx, "getmatchplayerdetails", matchID)
	if err != nil {
		return nil, err
	}
	list, err := decodeList[LivePlayer](raw, "getmatchplayerdetails")
	if err != nil {
		return nil, err
	}
	players := list[:0]
	for _, p := range list {
		if p.RetMsg != "" {
			continue
		}
		players = append(players, p)
	}
	if len(players) == 0 {
		return nil, notFound("live match")
	}
	return players, nil
}

// GetPlayerHistory returns a player's recent matches, most recent first.
// The list can be empty for players who haven't played recently. Returns
// ErrPrivate when the profile's privacy flag hides the history.
func (o *Operations) GetPlayerHistory(ctx context.Context, playerID int64) ([]HistoryMatch, error) {
	if playerID == 0 {
		return nil, notFound("player")
	}
	raw, err := o.request(ctx, "getmatchhistory", playerID)
	if err != nil {
		return nil, err
	}
	list, err := decodeList[HistoryMatch](raw, "getmatchhistory")
	if err != nil {
		return nil, err
	}
	matches := list[:0]
	for _, m := range list {
		if m.RetMsg != "" {
			if perr, ok := privateError(m.RetMsg); ok {
				return nil, perr
			}
			continue
		}
		m.MapName = CleanMapName(m.MapName)
		matches = append(matches, m)
	}
	return matches, nil
}

// GetMatch fetches a finished match by its ID. Matches expire on the
// server after roughly 30 days; expired or in-progress matches return
// ErrNotFound.
func (o *Operations) GetMatch(ctx context.Context, matchID int64) (*Match, error) {
	raw, err := o.request(ctx, "getmatchdetails", matchID)
	if err != nil {
		return nil, err
	}
	rows, err := decodeList[MatchPlayer](raw, "getmatchdetails")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound("match")
	}
	match := newMatch(rows)
	return &match, nil
}

// GetMatches fetches multiple finished matches, one request per 10 unique
// match IDs. Matches no longer available on the server are omitted; the
// returned order follows the input order.
func (o *Operations) GetMatches(ctx context.Context, ids []int64) ([]Match, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	o.logger.Debug().Int("matches", len(ids)).Msg("Fetching matches in batches")
	var matches []Match
	for _, chunkIDs := range batch.Chunks(ids, MatchesBatchSize) {
		chunkMatches, err := o.fetchMatchChunk(ctx, chunkIDs)
		if err != nil {
			return nil, err
		}
		matches = append(matches, chunkMatches...)
	}
	return matches, nil
}

// fetchMatchChunk fetches one batch of matches and groups the player rows
// into matches, ordered by the requested IDs.
func (o *Operations) fetchMatchChunk(ctx context.Context, chunkIDs []int64) ([]Match, error) {
	raw, err := o.request(ctx, "getmatchdetailsbatch", joinIDs(chunkIDs))
	if err != nil {
		return nil, err
	}
	rows, err := decodeList[MatchPlayer](raw, "getmatchdetailsbatch")
	if err != nil {
		return nil, err
	}
	grouped := make(map[int64][]MatchPlayer, len(chunkIDs))
	order := make([]int64, 0, len(chunkIDs))
	for _, row := range rows {
		if row.RetMsg != "" {
			continue
		}
		if _, ok := grouped[row.MatchID]; !ok {
			order = append(order, row.MatchID)
		}
		grouped[row.MatchID] = append(grouped[row.MatchID], row)
	}
	matches := make([]Match, 0, len(order))
	for _, id := range order {
		matches = append(matches, newMatch(grouped[id]))
	}
	batch.Reorder(matches, chunkIDs, func(m Match) int64 { return m.ID })
	return matches, nil
}

// GetMatchIDsForQueue enumerates the IDs of all matches played in a queue
// between the two timestamps, using the fewest requests the API's
// interval endpoints allow. Both bounds are inclusive and interpreted in
// UTC. With reverse set, IDs are returned newest first.
func (o *Operations) GetMatchIDsForQueue(ctx context.Context, queue Queue, start, end time.Time, reverse bool) ([]int64, error) {
	start = start.UTC()
	end = end.UTC()
	if end.Before(start) {
		return nil, nil
	}
	o.logger.Debug().
		Str("queue", queue.String()).
		Time("start", start).
		Time("end", end).
		Bool("reverse", reverse).
		Msg("Enumerating queue matches")
	var ids []int64
	for _, seg := range batch.Windows(start, end, reverse) {
		raw, err := o.request(ctx, "getmatchidsbyqueue", int(queue), seg.Date, seg.Hour)
		if err != nil {
			return nil, err
		}
		entries, err := decodeList[matchIDEntry](raw, "getmatchidsbyqueue")
		if err != nil {
			return nil, err
		}
		ids = append(ids, boundedMatchIDs(entries, start, end, reverse)...)
	}
	return ids, nil
}

// sortMatchIDEntries orders entries by their entry time, newest first
// when reverse is set.
func sortMatchIDEntries(entries []matchIDEntry, reverse bool) {
	sort.Slice(entries, func(i, j int) bool {
		if reverse {
			return entries[i].Entry.Time.After(entries[j].Entry.Time)
		}
		return entries[i].Entry.Time.Before(entries[j].Entry.Time)
	})
}

// boundedMatchIDs filters finished matches from one interval response,
// sorts them by entry time and keeps the ones within [start, end].
func boundedMatchIDs(entries []matchIDEntry, start, end time.Time, reverse bool) []int64 {
	finished := entries[:0]
	for _, e := range entries {
		if e.ActiveFlag == "n" {
			finished = append(finished, e)
		}
	}
	sortMatchIDEntries(finished, reverse)
	ids := make([]int64, 0, len(finished))
	for _, e := range finished {
		stamp := e.Entry.Time
		if reverse {
			if stamp.Before(start) {
				break
			}
			if !stamp.After(end) {
				ids = append(ids, e.MatchID.Int64())
			}
		} else {
			if stamp.After(end) {
				break
			}
			if !stamp.Before(start) {
				ids = append(ids, e.MatchID.Int64())
			}
		}
	}
	return ids
}

// GetMatchesForQueue fetches all matches played in a queue between the
// two timestamps. This combines GetMatchIDsForQueue with batched detail
// fetches, so wide time ranges consume requests accordingly.
func (o *Operations) GetMatchesForQueue(ctx context.Context, queue Queue, start, end time.Time, reverse bool) ([]Match, error) {
	ids, err := o.GetMatchIDsForQueue(ctx, queue, start, end, reverse)
	if err != nil {
		return nil, err
	}
	return o.GetMatches(ctx, ids)
}

// dedupe returns the IDs with duplicates and zeroes removed, preserving
// first-occurrence order.
func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// joinIDs renders IDs as the comma-separated list batch endpoints expect.
func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
