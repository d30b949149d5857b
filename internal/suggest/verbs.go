package suggest

import "github.com/jward/harmonizer/internal/coord"

func c(love, justice, power, wisdom float64) coord.Coordinate {
	return coord.MustFromCounts(love, justice, power, wisdom)
}

// builtinEntries is the verb table in insertion order. Ranking ties keep
// this order. Coordinates are fixed data.
var builtinEntries = []Entry{
	// retrieval
	{"get", c(0, 0, 0, 10), "retrieval"},
	{"fetch", c(0, 1, 1, 8), "retrieval"},
	{"find", c(0, 1, 0, 9), "retrieval"},
	{"retrieve", c(0, 1, 1, 8), "retrieval"},
	{"load", c(0, 1, 1, 8), "retrieval"},
	{"read", c(0, 0, 1, 9), "retrieval"},
	{"lookup", c(0, 1, 1, 8), "retrieval"},
	{"query", c(0, 1, 1, 8), "retrieval"},
	{"search", c(0, 1, 0, 9), "retrieval"},
	{"select", c(0, 1, 1, 8), "retrieval"},
	{"scan", c(0, 1, 1, 8), "retrieval"},
	{"list", c(0, 1, 1, 8), "retrieval"},
	{"enumerate", c(0, 1, 1, 8), "retrieval"},
	{"collect", c(0, 1, 1, 8), "retrieval"},
	{"gather", c(0, 1, 1, 8), "retrieval"},
	// analysis
	{"analyze", c(0, 1, 0, 9), "analysis"},
	{"evaluate", c(0, 2, 0, 8), "analysis"},
	{"assess", c(0, 2, 0, 8), "analysis"},
	{"compute", c(0, 2, 0, 8), "analysis"},
	{"calculate", c(0, 2, 0, 8), "analysis"},
	{"measure", c(0, 2, 0, 8), "analysis"},
	{"estimate", c(0, 2, 0, 8), "analysis"},
	{"inspect", c(0, 2, 0, 8), "analysis"},
	{"examine", c(0, 2, 0, 8), "analysis"},
	{"parse", c(0, 2, 0, 8), "analysis"},
	{"interpret", c(0, 2, 0, 8), "analysis"},
	{"infer", c(0, 2, 0, 8), "analysis"},
	{"derive", c(0, 2, 0, 8), "analysis"},
	{"predict", c(0, 2, 0, 8), "analysis"},
	{"detect", c(0, 2, 0, 8), "analysis"},
	{"identify", c(0, 2, 0, 8), "analysis"},
	{"count", c(0, 2, 0, 8), "analysis"},
	{"sum", c(0, 2, 0, 8), "analysis"},
	{"aggregate", c(0, 2, 0, 8), "analysis"},
	{"reduce", c(0, 2, 0, 8), "analysis"},
	// reporting
	{"describe", c(3, 0, 1, 6), "reporting"},
	{"explain", c(3, 0, 1, 6), "reporting"},
	{"summarize", c(3, 0, 1, 6), "reporting"},
	{"report", c(3, 0, 1, 6), "reporting"},
	{"document", c(3, 0, 1, 6), "reporting"},
	{"log", c(1, 1, 0, 8), "reporting"},
	{"trace", c(3, 0, 1, 6), "reporting"},
	{"record", c(3, 0, 1, 6), "reporting"},
	{"format", c(3, 0, 1, 6), "reporting"},
	{"render", c(3, 0, 1, 6), "reporting"},
	{"display", c(3, 0, 1, 6), "reporting"},
	{"show", c(3, 0, 1, 6), "reporting"},
	{"print", c(3, 0, 1, 6), "reporting"},
	// transformation
	{"transform", c(0, 1, 5, 4), "transformation"},
	{"convert", c(0, 1, 5, 4), "transformation"},
	{"map", c(0, 1, 5, 4), "transformation"},
	{"translate", c(0, 1, 5, 4), "transformation"},
	{"encode", c(0, 1, 5, 4), "transformation"},
	{"decode", c(0, 1, 5, 4), "transformation"},
	{"serialize", c(0, 1, 5, 4), "transformation"},
	{"deserialize", c(0, 1, 5, 4), "transformation"},
	{"marshal", c(0, 1, 5, 4), "transformation"},
	{"unmarshal", c(0, 1, 5, 4), "transformation"},
	{"compress", c(0, 1, 5, 4), "transformation"},
	{"decompress", c(0, 1, 5, 4), "transformation"},
	{"wrap", c(0, 1, 5, 4), "transformation"},
	{"split", c(0, 1, 5, 4), "transformation"},
	// creation
	{"create", c(1, 0, 8, 1), "creation"},
	{"make", c(1, 1, 7, 1), "creation"},
	{"build", c(1, 1, 7, 1), "creation"},
	{"construct", c(1, 1, 7, 1), "creation"},
	{"generate", c(1, 1, 7, 1), "creation"},
	{"produce", c(1, 1, 7, 1), "creation"},
	{"spawn", c(1, 1, 7, 1), "creation"},
	{"instantiate", c(1, 1, 7, 1), "creation"},
	{"initialize", c(1, 1, 7, 1), "creation"},
	{"allocate", c(1, 1, 7, 1), "creation"},
	{"clone", c(1, 1, 7, 1), "creation"},
	{"copy", c(1, 1, 7, 1), "creation"},
	{"fork", c(1, 1, 7, 1), "creation"},
	// mutation
	{"set", c(0, 1, 8, 1), "mutation"},
	{"update", c(0, 1, 7, 2), "mutation"},
	{"modify", c(0, 1, 8, 1), "mutation"},
	{"change", c(0, 1, 8, 1), "mutation"},
	{"alter", c(0, 1, 8, 1), "mutation"},
	{"edit", c(0, 1, 8, 1), "mutation"},
	{"patch", c(0, 1, 8, 1), "mutation"},
	{"replace", c(0, 1, 8, 1), "mutation"},
	{"assign", c(0, 1, 8, 1), "mutation"},
	{"increment", c(0, 1, 8, 1), "mutation"},
	{"decrement", c(0, 1, 8, 1), "mutation"},
	{"append", c(0, 1, 8, 1), "mutation"},
	{"insert", c(0, 1, 8, 1), "mutation"},
	{"push", c(0, 1, 8, 1), "mutation"},
	{"add", c(0, 1, 8, 1), "mutation"},
	{"put", c(0, 1, 8, 1), "mutation"},
	// destruction
	{"delete", c(0, 0, 10, 0), "destruction"},
	{"remove", c(0, 0, 10, 0), "destruction"},
	{"destroy", c(0, 0, 10, 0), "destruction"},
	{"drop", c(0, 1, 9, 0), "destruction"},
	{"purge", c(0, 1, 9, 0), "destruction"},
	{"erase", c(0, 1, 9, 0), "destruction"},
	{"clear", c(0, 1, 9, 0), "destruction"},
	{"truncate", c(0, 1, 9, 0), "destruction"},
	{"prune", c(0, 1, 9, 0), "destruction"},
	{"evict", c(0, 1, 9, 0), "destruction"},
	{"discard", c(0, 1, 9, 0), "destruction"},
	{"dispose", c(0, 1, 9, 0), "destruction"},
	{"kill", c(0, 0, 10, 0), "destruction"},
	{"terminate", c(0, 1, 9, 0), "destruction"},
	{"wipe", c(0, 1, 9, 0), "destruction"},
	{"pop", c(0, 1, 9, 0), "destruction"},
	// execution
	{"run", c(0, 1, 7, 2), "execution"},
	{"execute", c(0, 1, 7, 2), "execution"},
	{"start", c(0, 1, 7, 2), "execution"},
	{"stop", c(0, 1, 7, 2), "execution"},
	{"launch", c(0, 1, 7, 2), "execution"},
	{"invoke", c(0, 1, 7, 2), "execution"},
	{"call", c(0, 1, 7, 2), "execution"},
	{"trigger", c(0, 1, 7, 2), "execution"},
	{"perform", c(0, 1, 7, 2), "execution"},
	{"apply", c(0, 1, 7, 2), "execution"},
	{"process", c(0, 1, 7, 2), "execution"},
	// persistence
	{"save", c(0, 1, 7, 2), "persistence"},
	{"store", c(0, 1, 6, 3), "persistence"},
	{"persist", c(0, 1, 6, 3), "persistence"},
	{"write", c(0, 1, 6, 3), "persistence"},
	{"commit", c(0, 1, 6, 3), "persistence"},
	{"flush", c(0, 1, 6, 3), "persistence"},
	{"cache", c(0, 0, 4, 6), "persistence"},
	{"memoize", c(0, 1, 6, 3), "persistence"},
	{"backup", c(0, 1, 6, 3), "persistence"},
	// validation
	{"validate", c(0, 10, 0, 0), "validation"},
	{"verify", c(0, 9, 0, 1), "validation"},
	{"check", c(0, 9, 0, 1), "validation"},
	{"ensure", c(0, 9, 1, 0), "validation"},
	{"assert", c(0, 8, 1, 1), "validation"},
	{"confirm", c(0, 8, 1, 1), "validation"},
	{"test", c(0, 8, 1, 1), "validation"},
	{"audit", c(0, 8, 1, 1), "validation"},
	{"require", c(0, 8, 1, 1), "validation"},
	{"enforce", c(0, 8, 1, 1), "validation"},
	{"guard", c(0, 8, 1, 1), "validation"},
	// authorization
	{"authorize", c(0, 7, 3, 0), "authorization"},
	{"authenticate", c(0, 7, 3, 0), "authorization"},
	{"permit", c(0, 7, 3, 0), "authorization"},
	{"allow", c(0, 7, 3, 0), "authorization"},
	{"deny", c(0, 7, 3, 0), "authorization"},
	{"grant", c(0, 7, 3, 0), "authorization"},
	{"revoke", c(0, 7, 3, 0), "authorization"},
	{"restrict", c(0, 7, 3, 0), "authorization"},
	{"forbid", c(0, 7, 3, 0), "authorization"},
	{"approve", c(0, 7, 3, 0), "authorization"},
	{"reject", c(0, 7, 3, 0), "authorization"},
	// ordering
	{"sort", c(0, 7, 0, 3), "ordering"},
	{"order", c(0, 6, 0, 4), "ordering"},
	{"rank", c(0, 6, 0, 4), "ordering"},
	{"arrange", c(0, 6, 0, 4), "ordering"},
	{"organize", c(0, 6, 0, 4), "ordering"},
	{"align", c(0, 6, 0, 4), "ordering"},
	{"compare", c(0, 6, 0, 4), "ordering"},
	{"match", c(0, 6, 0, 4), "ordering"},
	{"filter", c(0, 7, 1, 2), "ordering"},
	{"partition", c(0, 6, 0, 4), "ordering"},
	{"group", c(0, 6, 0, 4), "ordering"},
	{"balance", c(0, 6, 0, 4), "ordering"},
	{"classify", c(0, 6, 0, 4), "ordering"},
	// sanitization
	{"sanitize", c(2, 6, 1, 1), "sanitization"},
	{"escape", c(2, 6, 1, 1), "sanitization"},
	{"clean", c(2, 6, 1, 1), "sanitization"},
	{"normalize", c(2, 6, 1, 1), "sanitization"},
	{"standardize", c(2, 6, 1, 1), "sanitization"},
	{"trim", c(2, 6, 1, 1), "sanitization"},
	{"strip", c(2, 6, 1, 1), "sanitization"},
	// communication
	{"send", c(6, 0, 3, 1), "communication"},
	{"notify", c(8, 0, 1, 1), "communication"},
	{"message", c(7, 0, 2, 1), "communication"},
	{"broadcast", c(7, 0, 2, 1), "communication"},
	{"publish", c(7, 0, 2, 1), "communication"},
	{"emit", c(7, 0, 2, 1), "communication"},
	{"announce", c(7, 0, 2, 1), "communication"},
	{"reply", c(7, 0, 2, 1), "communication"},
	{"respond", c(7, 0, 2, 1), "communication"},
	{"inform", c(7, 0, 2, 1), "communication"},
	{"tell", c(7, 0, 2, 1), "communication"},
	{"deliver", c(7, 0, 2, 1), "communication"},
	{"forward", c(7, 0, 2, 1), "communication"},
	{"signal", c(7, 0, 2, 1), "communication"},
	{"invite", c(7, 0, 2, 1), "communication"},
	// connection
	{"connect", c(7, 1, 1, 1), "connection"},
	{"link", c(7, 1, 1, 1), "connection"},
	{"attach", c(7, 1, 1, 1), "connection"},
	{"bind", c(7, 1, 1, 1), "connection"},
	{"merge", c(7, 1, 1, 1), "connection"},
	{"combine", c(7, 1, 1, 1), "connection"},
	{"pair", c(7, 1, 1, 1), "connection"},
	{"associate", c(7, 1, 1, 1), "connection"},
	{"relate", c(7, 1, 1, 1), "connection"},
	{"subscribe", c(7, 1, 1, 1), "connection"},
	{"register", c(7, 1, 1, 1), "connection"},
	{"include", c(7, 1, 1, 1), "connection"},
	// support
	{"help", c(10, 0, 0, 0), "support"},
	{"support", c(10, 0, 0, 0), "support"},
	{"assist", c(9, 0, 0, 1), "support"},
	{"serve", c(9, 0, 0, 1), "support"},
	{"provide", c(9, 0, 0, 1), "support"},
	{"offer", c(9, 0, 0, 1), "support"},
	{"share", c(9, 0, 0, 1), "support"},
	{"give", c(9, 0, 0, 1), "support"},
	{"welcome", c(10, 0, 0, 0), "support"},
	{"greet", c(9, 0, 0, 1), "support"},
	{"thank", c(9, 0, 0, 1), "support"},
	{"encourage", c(9, 0, 0, 1), "support"},
	// recovery
	{"recover", c(5, 2, 2, 1), "recovery"},
	{"restore", c(5, 1, 3, 1), "recovery"},
	{"repair", c(5, 2, 2, 1), "recovery"},
	{"fix", c(4, 3, 3, 0), "recovery"},
	{"heal", c(5, 2, 2, 1), "recovery"},
	{"rescue", c(5, 2, 2, 1), "recovery"},
	{"retry", c(5, 2, 2, 1), "recovery"},
	{"reconcile", c(5, 2, 2, 1), "recovery"},
	{"sync", c(5, 3, 1, 1), "recovery"},
	{"synchronize", c(5, 2, 2, 1), "recovery"},
	{"rollback", c(5, 2, 2, 1), "recovery"},
	// lifecycle
	{"open", c(0, 3, 6, 1), "lifecycle"},
	{"close", c(0, 3, 6, 1), "lifecycle"},
	{"enable", c(0, 3, 6, 1), "lifecycle"},
	{"disable", c(0, 3, 6, 1), "lifecycle"},
	{"activate", c(0, 3, 6, 1), "lifecycle"},
	{"deactivate", c(0, 3, 6, 1), "lifecycle"},
	{"lock", c(0, 3, 6, 1), "lifecycle"},
	{"unlock", c(0, 3, 6, 1), "lifecycle"},
	{"mount", c(0, 3, 6, 1), "lifecycle"},
	{"unmount", c(0, 3, 6, 1), "lifecycle"},
	{"reset", c(0, 3, 6, 1), "lifecycle"},
	{"restart", c(0, 3, 6, 1), "lifecycle"},
	{"shutdown", c(0, 3, 6, 1), "lifecycle"},
	// coordination
	{"coordinate", c(4, 3, 2, 1), "coordination"},
	{"mediate", c(4, 3, 2, 1), "coordination"},
	{"delegate", c(4, 3, 2, 1), "coordination"},
	{"orchestrate", c(4, 3, 2, 1), "coordination"},
	{"manage", c(4, 3, 2, 1), "coordination"},
	{"monitor", c(2, 3, 0, 5), "coordination"},
	{"observe", c(2, 1, 0, 7), "coordination"},
	{"watch", c(2, 2, 0, 6), "coordination"},
	// phrasal
	{"look_up", c(0, 0, 0, 10), "phrasal"},
	{"set_up", c(1, 1, 7, 1), "phrasal"},
	{"clean_up", c(1, 2, 7, 0), "phrasal"},
	{"tear_down", c(0, 1, 9, 0), "phrasal"},
	{"check_in", c(2, 7, 0, 1), "phrasal"},
	{"sign_in", c(1, 8, 1, 0), "phrasal"},
	{"log_in", c(1, 8, 1, 0), "phrasal"},
	{"roll_back", c(4, 2, 4, 0), "phrasal"},
	{"back_up", c(1, 1, 5, 3), "phrasal"},
	{"fall_back", c(5, 4, 0, 1), "phrasal"},
	{"follow_up", c(8, 1, 0, 1), "phrasal"},
	{"hand_off", c(7, 1, 2, 0), "phrasal"},
	{"find_or_create", c(0, 1, 5, 4), "phrasal"},
	{"get_or_default", c(1, 1, 0, 8), "phrasal"},
	{"try_parse", c(2, 2, 0, 6), "phrasal"},
	{"write_through", c(0, 1, 6, 3), "phrasal"},
}
