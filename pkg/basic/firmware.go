package basic

// Amstrad CPC firmware jumpblock entries used by generated code. Output
// references them as bare hex literals with the entry name in a trailing
// comment, following Maxam/WinAPE convention.
const (
	fwKMWaitKey     = "&BB18" // KM_WAIT_KEY
	fwKMReadChar    = "&BB09" // KM_READ_CHAR
	fwTxtOutput     = "&BB5A" // TXT_OUTPUT
	fwTxtClearWin   = "&BB6C" // TXT_CLEAR_WINDOW
	fwTxtSetCursor  = "&BB75" // TXT_SET_CURSOR
	fwTxtCurEnable  = "&BB7B" // TXT_CUR_ENABLE
	fwTxtCurDisable = "&BB7E" // TXT_CUR_DISABLE
	fwTxtCurOn      = "&BB81" // TXT_CUR_ON
	fwTxtCurOff     = "&BB84" // TXT_CUR_OFF
	fwTxtSetPen     = "&BB90" // TXT_SET_PEN
	fwTxtSetPaper   = "&BB96" // TXT_SET_PAPER
	fwTxtSetMatrix  = "&BBA8" // TXT_SET_MATRIX
	fwTxtSetMTable  = "&BBAB" // TXT_SET_M_TABLE
	fwTxtGetCursor  = "&BB78" // TXT_GET_CURSOR
	fwScrSetMode    = "&BC0E" // SCR_SET_MODE

	fwGraMoveAbs = "&BBC0" // GRA_MOVE_ABSOLUTE
	fwGraPlotAbs = "&BBEA" // GRA_PLOT_ABSOLUTE
	fwGraLineAbs = "&BBF6" // GRA_LINE_ABSOLUTE

	// 6128 maths pack entries operating on 5-byte reals.
	fwMathIntToReal = "&BD40" // MATH_INT_TO_REAL
	fwMathRealToInt = "&BD46" // MATH_REAL_TO_INT
	fwMathRealFix   = "&BD4C" // MATH_REAL_FIX
	fwMathRealInt   = "&BD4F" // MATH_REAL_INT
	fwMathRealAdd   = "&BD58" // MATH_REAL_ADD
	fwMathRealRSub  = "&BD5E" // MATH_REAL_REV_SUBS
	fwMathRealMult  = "&BD61" // MATH_REAL_MULT
	fwMathRealDiv   = "&BD64" // MATH_REAL_DIV
	fwMathRealComp  = "&BD6A" // MATH_REAL_COMP
	fwMathRealNeg   = "&BD6D" // MATH_REAL_UMINUS
	fwMathRealPower = "&BD7C" // MATH_REAL_POWER
)

// fwNames keys the comment text emitted next to each firmware call.
var fwNames = map[string]string{
	fwKMWaitKey:     "KM_WAIT_KEY",
	fwKMReadChar:    "KM_READ_CHAR",
	fwTxtOutput:     "TXT_OUTPUT",
	fwTxtClearWin:   "TXT_CLEAR_WINDOW",
	fwTxtSetCursor:  "TXT_SET_CURSOR",
	fwTxtCurEnable:  "TXT_CUR_ENABLE",
	fwTxtCurDisable: "TXT_CUR_DISABLE",
	fwTxtCurOn:      "TXT_CUR_ON",
	fwTxtCurOff:     "TXT_CUR_OFF",
	fwTxtSetPen:     "TXT_SET_PEN",
	fwTxtSetPaper:   "TXT_SET_PAPER",
	fwTxtSetMatrix:  "TXT_SET_MATRIX",
	fwTxtSetMTable:  "TXT_SET_M_TABLE",
	fwTxtGetCursor:  "TXT_GET_CURSOR",
	fwScrSetMode:    "SCR_SET_MODE",
	fwGraMoveAbs:    "GRA_MOVE_ABSOLUTE",
	fwGraPlotAbs:    "GRA_PLOT_ABSOLUTE",
	fwGraLineAbs:    "GRA_LINE_ABSOLUTE",
	fwMathIntToReal: "MATH_INT_TO_REAL",
	fwMathRealToInt: "MATH_REAL_TO_INT",
	fwMathRealFix:   "MATH_REAL_FIX",
	fwMathRealInt:   "MATH_REAL_INT",
	fwMathRealAdd:   "MATH_REAL_ADD",
	fwMathRealRSub:  "MATH_REAL_REV_SUBS",
	fwMathRealMult:  "MATH_REAL_MULT",
	fwMathRealDiv:   "MATH_REAL_DIV",
	fwMathRealComp:  "MATH_REAL_COMP",
	fwMathRealNeg:   "MATH_REAL_UMINUS",
	fwMathRealPower: "MATH_REAL_POWER",
}
