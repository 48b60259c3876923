package vbs

// reservedWords holds VBScript statement keywords plus the common built-in
// function names. Identifier scans drop these so references to user symbols
// are not drowned out by language vocabulary.
var reservedWords = map[string]struct{}{}

func init() {
	words := []string{
		// statement keywords
		"and", "as", "byref", "byval", "call", "case", "class", "const",
		"dim", "do", "each", "else", "elseif", "empty", "end", "eqv",
		"erase", "error", "execute", "exit", "explicit", "false", "for",
		"function", "get", "goto", "if", "imp", "in", "is", "let", "loop",
		"mod", "new", "next", "not", "nothing", "null", "on", "option",
		"or", "preserve", "private", "property", "public", "redim", "rem",
		"resume", "select", "set", "step", "sub", "then", "to", "true",
		"until", "wend", "while", "with", "xor",
		// built-in functions
		"abs", "array", "asc", "cbool", "cbyte", "ccur", "cdate", "cdbl",
		"chr", "cint", "clng", "createobject", "csng", "cstr", "date",
		"dateadd", "datediff", "datepart", "dateserial", "datevalue",
		"day", "escape", "eval", "exp", "filter", "fix", "formatcurrency",
		"formatdatetime", "formatnumber", "formatpercent", "getlocale",
		"getobject", "getref", "hex", "hour", "inputbox", "instr",
		"instrrev", "int", "isarray", "isdate", "isempty", "isnull",
		"isnumeric", "isobject", "join", "lbound", "lcase", "left", "len",
		"loadpicture", "log", "ltrim", "mid", "minute", "month",
		"monthname", "msgbox", "now", "oct", "replace", "rgb", "right",
		"rnd", "round", "rtrim", "scriptengine", "scriptenginebuildversion",
		"scriptenginemajorversion", "scriptengineminorversion", "second",
		"setlocale", "sgn", "sin", "space", "split", "sqr", "strcomp",
		"string", "strreverse", "tan", "time", "timer", "timeserial",
		"timevalue", "trim", "typename", "ubound", "ucase", "unescape",
		"vartype", "weekday", "weekdayname", "year",
	}
	for _, w := range words {
		reservedWords[w] = struct{}{}
	}
}

// IsReservedWord reports whether name is a VBScript keyword or built-in,
// case-insensitively. The table is fixed; user code cannot shadow it.
func IsReservedWord(name string) bool {
	_, ok := reservedWords[lowerASCII(name)]
	return ok
}

// lowerASCII avoids strings.ToLower allocations on the identifier hot path.
// VBScript identifiers are ASCII.
func lowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
