package api

// EngineVersion is stamped on every response so verification tooling
// can pin the outcome algorithms a wager was settled under.
const EngineVersion = "1.0.0"
