package types

// Client -> Server
// connect_to_lobby:
//   gameId: string
//   player: { id, name, avatar, walletAddress }
//
// player_ready:
//   gameId: string
//   playerId: number
//
// player_stake_confirmed:
//   gameId: string
//   playerId: number
//   paymentHash: string
//
// start_game:
//   gameId: string
//   playerId: number  // must be the game creator
//
// place_letter:
//   gameId: string
//   playerId: number
//   letter: string  // single A-Z
//   x: number
//   y: number
//
// remove_letter:
//   gameId: string
//   playerId: number
//   x: number
//   y: number
//
// submit_word:
//   gameId: string
//   playerId: number
//   word: string
//   path: [{x, y}]  // ordered left-to-right or top-to-bottom
//   isNew: boolean  // false when extending an already-committed word
//
// refresh_available_letters:
//   gameId: string
//   playerId: number  // swaps the whole rack back into the bag
//
// leave_game:
//   gameId: string
//   playerId: number  // pre-game frees the seat; mid-game is a no-op

// Server -> Client (every message is an envelope)
// envelope:
//   seq: number       // monotonic per room; discard seq already applied
//   type: string
//   payload: object
//
// player_joined: { player }
// game_full: {}
// game_update: { players, status }
// game_loading: { title, body }
// game_started: { board, timeRemaining, players, startTime, endTime }
// letter_placed: { player, position, letter }
// letter_removed: { playerId, position }
// word_submitted: { player, words, score, path, board }
// word_not_valid: { player, word, path, cleared, board }
// adjacent_words_not_valid: { player, word, words, path, cleared, board }
// score_update: { player, newScore, totalScore }
// refreshed_available_letters: { players, playerId }
// timer_tick: { timeRemaining }
// game_ended: { players }
// state_snapshot: { gameId, status, players, board?, timeRemaining?, stake? }
// error: { code, message }  // sent only to the offending client
