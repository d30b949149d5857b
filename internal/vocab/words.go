package vocab

import "github.com/jward/harmonizer/internal/coord"

// Built-in word lists. The assignments are empirical and are kept as data;
// changing them shifts every score.

// compoundPatterns are multi-word phrases, normalized to lowercase words
// joined by single spaces.
var compoundPatterns = map[coord.Dimension][]string{
	coord.Love: {
		"reach out", "follow up", "give back", "help out", "hand off", "hand over",
		"send message", "send email", "send notification", "notify user",
		"welcome user", "greet user", "share with", "connect to", "join with",
		"get along", "look after", "care for", "stand by", "pass along",
		"report back", "call back", "write to user", "reply to",
	},
	coord.Justice: {
		"check in", "check out", "sign in", "sign out", "log in", "log out",
		"make sure", "is valid", "is allowed", "is authorized", "has access",
		"has permission", "can access", "should be", "must be", "for each",
		"fall back", "line up", "sort by", "order by", "filter by", "group by",
		"match against", "compare to", "compare with", "conform to", "abide by",
	},
	coord.Power: {
		"clean up", "tear down", "shut down", "set up", "roll back", "wipe out",
		"blow up", "carry out", "write back", "break down", "knock out",
		"take over", "force update", "hard reset", "kill process", "drop table",
		"bring up", "spin up", "boot up", "start up", "power off", "flush out",
		"push through", "throw away", "cut off",
	},
	coord.Wisdom: {
		"look up", "find out", "figure out", "read only", "to string",
		"get info", "get data", "get details", "get status", "learn from",
		"think through", "work out", "dig into", "map out", "sum up",
		"keep track", "take note", "look into", "point out", "make sense",
		"read from", "load from", "fetch from", "query for", "search for",
	},
}

// verbs are single words describing what code does.
var verbs = map[coord.Dimension][]string{
	coord.Love: {
		"help", "support", "assist", "serve", "care", "protect", "nurture",
		"heal", "comfort", "welcome", "greet", "thank", "share", "give",
		"donate", "contribute", "offer", "provide", "connect", "link", "bind",
		"attach", "join", "merge", "unite", "combine", "bridge", "pair",
		"couple", "relate", "associate", "collaborate", "cooperate",
		"communicate", "send", "notify", "message", "tell", "inform", "reply",
		"respond", "answer", "invite", "subscribe", "publish",
		"broadcast", "emit", "dispatch", "forward", "deliver", "announce",
		"sync", "synchronize", "reconcile", "forgive", "recover",
		"rescue", "restore", "repair", "mend", "fix", "handle", "catch",
		"embrace", "include", "accept", "adopt", "host", "accommodate",
		"introduce", "mentor", "encourage", "appreciate", "celebrate",
		"display", "show", "render", "present", "print", "echo", "say",
		"speak", "chat", "talk", "mail", "email", "ping", "wave",
	},
	coord.Justice: {
		"validate", "verify", "check", "ensure", "assert", "confirm", "test",
		"prove", "audit", "review", "approve", "reject", "deny",
		"allow", "permit", "grant", "revoke", "authorize", "authenticate",
		"guard", "enforce", "require", "restrict", "limit", "constrain",
		"bound", "clamp", "cap", "throttle", "regulate", "govern", "rule",
		"judge", "decide", "arbitrate", "mediate", "compare", "match", "equal",
		"equals", "differ", "balance", "weigh", "rank", "order", "sort",
		"arrange", "organize", "align", "normalize", "standardize",
		"sanitize", "escape", "clean", "filter", "screen", "sift", "exclude",
		"partition", "classify", "categorize", "qualify", "comply",
		"conform", "honor", "respect", "obey", "abide", "settle", "resolve",
		"correct", "rectify", "fair", "lawful", "valid", "legal", "is",
		"has", "can", "should", "must", "expect", "certify",
		"sign", "seal", "lock", "unlock", "secure", "gate",
	},
	coord.Power: {
		"create", "make", "build", "construct", "generate", "produce",
		"spawn", "fork", "instantiate", "init", "initialize", "allocate",
		"delete", "remove", "destroy", "drop", "kill", "terminate", "erase",
		"purge", "wipe", "clear", "truncate", "prune", "evict", "discard",
		"dispose", "release", "free", "execute", "run", "start", "stop",
		"launch", "trigger", "fire", "invoke", "call", "perform", "apply",
		"force", "push", "pop", "shift", "unshift", "insert", "add", "append",
		"prepend", "put", "set", "update", "modify", "change", "mutate",
		"alter", "edit", "patch", "replace", "overwrite", "write", "save",
		"store", "persist", "commit", "flush", "assign", "increment",
		"decrement", "reset", "move", "rename", "copy", "transform",
		"convert", "compress", "encode", "encrypt", "hash", "crash", "abort",
		"exit", "halt", "panic", "raise", "throw", "fail", "break", "smash",
		"override", "seize", "take", "grab", "acquire", "claim", "control",
		"command", "drive", "boost", "upgrade", "install", "deploy", "mount",
		"unmount", "open", "close", "shutdown", "restart", "reboot",
		"enable", "disable", "toggle", "activate", "deactivate",
	},
	coord.Wisdom: {
		"get", "fetch", "find", "search", "seek", "query", "read", "load",
		"retrieve", "lookup", "look", "see", "view", "watch", "observe",
		"monitor", "track", "trace", "log", "record", "note", "remember",
		"recall", "know", "learn", "understand", "comprehend", "study",
		"analyze", "analyse", "evaluate", "assess", "examine", "explore",
		"investigate", "research", "discover", "detect", "identify",
		"recognize", "calculate", "compute", "count", "sum", "total",
		"average", "measure", "estimate", "predict", "forecast", "infer",
		"deduce", "derive", "reason", "think", "consider", "plan", "design",
		"model", "simulate", "interpret", "parse", "decode", "decrypt",
		"extract", "select", "pick", "choose", "list", "enumerate", "scan",
		"describe", "explain", "document", "summarize", "report", "index",
		"catalog", "map", "reduce", "fold", "aggregate", "collect", "gather",
		"accumulate", "cache", "memoize", "peek", "inspect",
		"determine", "figure", "guess", "sample", "profile",
		"benchmark", "diff", "format", "stringify", "serialize",
		"deserialize", "marshal", "unmarshal", "translate",
	},
}

// keywords are language keywords and the construct words emitted by the
// concept extractor.
var keywords = map[coord.Dimension][]string{
	coord.Love: {
		"try", "catch", "except", "finally", "rescue", "handle",
		"recover", "defer",
	},
	coord.Justice: {
		"if", "else", "elif", "unless", "switch", "case", "default", "match",
		"when", "select", "for", "foreach", "while", "do", "loop", "iterate",
		"until", "conditional", "break", "continue", "instanceof", "typeof",
		"assert", "where", "guard",
	},
	coord.Power: {
		"throw", "throws", "raise", "error", "exception", "panic", "new",
		"delete", "goto", "go", "assign", "set", "modify", "exit", "kill",
		"static", "mut", "unsafe", "operator",
	},
	coord.Wisdom: {
		"return", "yield", "await", "async", "const", "let", "var", "val",
		"import", "export", "package", "module", "require", "include",
		"interface", "type", "class", "struct", "def", "func", "function",
		"fn", "lambda", "readonly", "final",
	},
}
