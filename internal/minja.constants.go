package internal

// Log message constants - ALL log messages must be constants (NO MAGIC STRINGS)
const (
	LogMsgLexerStart     = "lexer starting"
	LogMsgLexerEnd       = "lexer finished"
	LogMsgParserStart    = "parser starting"
	LogMsgParserEnd      = "parser finished"
	LogMsgParseStatement = "parsing statement"
	LogMsgExecutorStart  = "executor starting"
	LogMsgExecutorEnd    = "executor finished"
)
