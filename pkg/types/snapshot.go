package types

// state_snapshot:
//   gameId: string
//   status: "pending" | "ready" | "loading" | "live" | "ended" | "full"
//   players: [{ id, name, avatar, walletAddress, ready, staked, score, availableLetters }]
//   board: { cells: 10x10 [{ letter?, owner?, committed? }] }  // live/ended only
//   timeRemaining: number  // seconds, live only
//   stake: number
//
// Sent on every Attach (first connect and reconnect). There is no replay
// of missed deltas; the snapshot is the resync mechanism.
