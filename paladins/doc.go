// Package paladins provides typed, cached operations for the Paladins
// statistics API on top of the low-level hirez request engine.
//
// # Architecture
//
// The package is organized around a few core components:
//
//   - Operations: typed API calls (players, matches, champions, status)
//   - ChampionInfo: champion and item metadata with lookup indexes
//   - StatusWatcher: background polling with change notifications
//   - Enums: Language, Platform, Queue and Activity with alias parsing
//
// Operations wraps any implementation of the API interface, normally a
// *hirez.Client, and layers response decoding, soft-error mapping and
// caching on top. Champion metadata is cached per language for 12 hours,
// the server status for 1 minute; both caches serve stale data when a
// refresh fails, so transient API trouble doesn't erase what was already
// known.
//
// # Usage
//
//	client, err := hirez.New(hirez.PaladinsURL, devID, authKey, logger)
//	if err != nil {
//		return err
//	}
//	ops := paladins.NewOperations(client, logger)
//	defer ops.Close()
//
//	player, err := ops.GetPlayer(ctx, "SomePlayer")
//	if err != nil {
//		return err
//	}
//	history, err := ops.GetPlayerHistory(ctx, player.ID)
//
// # Error Handling
//
// Operations translate the API's soft errors into sentinel errors:
//
//   - ErrNotFound: the requested entity does not exist
//   - ErrPrivate: the profile's privacy flag hides the data
//   - ErrLimitReached: the daily request limit is exhausted
//
// ErrPrivate errors carry a *PrivateError with the player ID the API
// still discloses:
//
//	var perr *paladins.PrivateError
//	if errors.As(err, &perr) {
//		fmt.Println("private player:", perr.PlayerID)
//	}
//
// Transport and HTTP failures surface unchanged from the hirez package.
package paladins
