package basic

import "sort"

// Routine is one entry of the runtime library catalog: a named snippet of
// Z80 code, the entries it calls, and the data-area reservations its body
// relies on. Only routines reachable from recorded call sites are emitted.
type Routine struct {
	Name string
	Deps []string
	Data []string // data-area lines emitted once when the routine is used
	Body []string
}

// runtimeLib is the fixed catalog. Bodies follow Maxam/WinAPE syntax with
// the routine name as entry label, so the emitted LIBRARY AREA resolves
// every call by name.
var runtimeLib = map[string]Routine{
	"mul16_unsigned": {
		Name: "mul16_unsigned",
		Body: []string{
			"; 16x16 unsigned multiplication, HL = HL*DE",
			"mul16_unsigned:",
			"\tld      a,l",
			"\tld      c,h",
			"\tld      b,16",
			"\tld      hl,0",
			"mul16_unsigned_bit:",
			"\tsrl     c",
			"\trra",
			"\tjr      nc,mul16_unsigned_skip",
			"\tadd     hl,de",
			"mul16_unsigned_skip:",
			"\tex      de,hl",
			"\tadd     hl,hl",
			"\tex      de,hl",
			"\tdjnz    mul16_unsigned_bit",
			"\tret",
		},
	},
	"div16_unsigned": {
		Name: "div16_unsigned",
		Body: []string{
			"; 16/16 unsigned division, HL = HL div DE, DE = HL mod DE",
			"div16_unsigned:",
			"\tld      a,h",
			"\tld      c,l",
			"\tld      hl,0",
			"\tld      b,16",
			"div16_unsigned_bit:",
			"\trl      c",
			"\trla",
			"\tadc     hl,hl",
			"\tsbc     hl,de",
			"\tjr      nc,div16_unsigned_keep",
			"\tadd     hl,de",
			"div16_unsigned_keep:",
			"\tccf",
			"\tdjnz    div16_unsigned_bit",
			"\trl      c",
			"\trla",
			"\tld      d,a",
			"\tld      e,c",
			"\tex      de,hl",
			"\tret",
		},
	},
	"sign_extract": {
		Name: "sign_extract",
		Body: []string{
			"; extract common sign from HL and DE; CY=1 when signs differ",
			"sign_extract:",
			"\tld      a,h",
			"\txor     d",
			"\trla",
			"\tret",
		},
	},
	"sign_strip": {
		Name: "sign_strip",
		Body: []string{
			"; strip signs from HL and DE",
			"sign_strip:",
			"\tbit     7,d",
			"\tjr      z,sign_strip_hl",
			"\tld      a,d",
			"\tcpl",
			"\tld      d,a",
			"\tld      a,e",
			"\tcpl",
			"\tld      e,a",
			"\tinc     de",
			"sign_strip_hl:",
			"\tbit     7,h",
			"\tret     z",
			"neghl:",
			"\tld      a,h",
			"\tcpl",
			"\tld      h,a",
			"\tld      a,l",
			"\tcpl",
			"\tld      l,a",
			"\tinc     hl",
			"\tret",
		},
	},
	"mul16_signed": {
		Name: "mul16_signed",
		Deps: []string{"sign_extract", "sign_strip", "mul16_unsigned"},
		Body: []string{
			"; 15x15 signed multiplication",
			"mul16_signed:",
			"\tcall    sign_extract",
			"\tpush    af",
			"\tcall    sign_strip",
			"\tcall    mul16_unsigned",
			"\tpop     af",
			"\tret     nc",
			"\tjr      neghl",
		},
	},
	"div16_signed": {
		Name: "div16_signed",
		Deps: []string{"sign_extract", "sign_strip", "div16_unsigned"},
		Body: []string{
			"; 15/15 signed division",
			"div16_signed:",
			"\tex      de,hl",
			"\tcall    sign_extract",
			"\tpush    af",
			"\tcall    sign_strip",
			"\tcall    div16_unsigned",
			"\tpop     af",
			"\tret     nc",
			"\tjr      neghl",
		},
	},
	"mod16": {
		Name: "mod16",
		Deps: []string{"div16_unsigned"},
		Body: []string{
			"; 15/15 remainder",
			"mod16:",
			"\tex      de,hl",
			"\tcall    div16_unsigned",
			"\tex      de,hl",
			"\tret",
		},
	},
	"comp16_signed": {
		Name: "comp16_signed",
		Body: []string{
			"; signed comparison HL-DE, CY set when HL < DE",
			"comp16_signed:",
			"\txor     a",
			"\tsbc     hl,de",
			"\tret     z",
			"\tjp      m,comp16_signed_lt",
			"\tor      a",
			"\tret",
			"comp16_signed_lt:",
			"\tscf",
			"\tret",
		},
	},
	"abs16": {
		Name: "abs16",
		Deps: []string{"sign_strip"},
		Body: []string{
			"; HL = |HL|",
			"abs16:",
			"\tbit     7,h",
			"\tret     z",
			"\tjp      neghl",
		},
	},
	"pow16": {
		Name: "pow16",
		Deps: []string{"mul16_signed"},
		Body: []string{
			"; HL = HL raised to DE; negative exponents truncate to zero",
			"pow16:",
			"\tbit     7,d",
			"\tjr      z,pow16_positive",
			"\tld      hl,0",
			"\tret",
			"pow16_positive:",
			"\tld      b,d",
			"\tld      c,e",
			"\tex      de,hl",
			"\tld      hl,1",
			"pow16_loop:",
			"\tld      a,b",
			"\tor      c",
			"\tret     z",
			"\tpush    bc",
			"\tpush    de",
			"\tcall    mul16_signed",
			"\tpop     de",
			"\tpop     bc",
			"\tdec     bc",
			"\tjr      pow16_loop",
		},
	},
	"div16_hlby10": {
		Name: "div16_hlby10",
		Body: []string{
			"; HL = HL/10, A = remainder; BC ends as &000A",
			"div16_hlby10:",
			"\tld      bc,&0D0A",
			"\txor     a",
			"\tadd     hl,hl",
			"\trla",
			"\tadd     hl,hl",
			"\trla",
			"\tadd     hl,hl",
			"\trla",
			"\tadd     hl,hl",
			"\trla",
			"\tcp      c",
			"\tjr      c,$+4",
			"\tsub     c",
			"\tinc     l",
			"\tdjnz    $-7",
			"\tret",
		},
	},

	"strlib_print_nl": {
		Name: "strlib_print_nl",
		Body: []string{
			"strlib_print_nl:",
			"\tld      a,13",
			"\tcall    " + fwTxtOutput + " ;TXT_OUTPUT",
			"\tld      a,10",
			"\tcall    " + fwTxtOutput + " ;TXT_OUTPUT",
			"\tret",
		},
	},
	"strlib_print_str": {
		Name: "strlib_print_str",
		Body: []string{
			"; HL = address of the string to print",
			"strlib_print_str:",
			"\tld      a,(hl)",
			"\tor      a",
			"\tret     z",
			"\tinc     hl",
			"\tcall    " + fwTxtOutput + " ;TXT_OUTPUT",
			"\tjr      strlib_print_str",
		},
	},
	"strlib_print_zone": {
		Name: "strlib_print_zone",
		Body: []string{
			"; advance the cursor to the next 13-column print zone",
			"strlib_print_zone:",
			"\tcall    " + fwTxtGetCursor + " ;TXT_GET_CURSOR",
			"\tld      a,h",
			"\tdec     a",
			"strlib_print_zone_calc:",
			"\tsub     13",
			"\tjr      nc,strlib_print_zone_calc",
			"\tneg",
			"\tld      b,a",
			"strlib_print_zone_pad:",
			"\tld      a,32",
			"\tcall    " + fwTxtOutput + " ;TXT_OUTPUT",
			"\tdjnz    strlib_print_zone_pad",
			"\tret",
		},
	},
	"strlib_int2str": {
		Name: "strlib_int2str",
		Deps: []string{"div16_hlby10"},
		Data: []string{"__strlib_int2str_conv: defs 8"},
		Body: []string{
			"; HL = number to convert; returns HL = address of the text",
			"strlib_int2str:",
			"\tld      de,__strlib_int2str_conv",
			"\tbit     7,h",
			"\tjr      z,strlib_int2str_digits",
			"\tld      a,\"-\"",
			"\tld      (de),a",
			"\tinc     de",
			"\txor     a",
			"\tsub     l",
			"\tld      l,a",
			"\tld      a,0",
			"\tsbc     a,h",
			"\tld      h,a",
			"strlib_int2str_digits:",
			"\tld      b,0",
			"strlib_int2str_next:",
			"\tpush    bc",
			"\tcall    div16_hlby10",
			"\tpop     bc",
			"\tpush    af",
			"\tinc     b",
			"\tld      a,h",
			"\tor      l",
			"\tjr      nz,strlib_int2str_next",
			"strlib_int2str_store:",
			"\tpop     af",
			"\tor      &30",
			"\tld      (de),a",
			"\tinc     de",
			"\tdjnz    strlib_int2str_store",
			"\txor     a",
			"\tld      (de),a",
			"\tld      hl,__strlib_int2str_conv",
			"\tret",
		},
	},
	"strlib_str2int": {
		Name: "strlib_str2int",
		Body: []string{
			"; DE = text, HL = address of the 16-bit destination",
			"strlib_str2int:",
			"\tpush    hl",
			"\tld      hl,0",
			"\tld      a,(de)",
			"\tcp      \"-\"",
			"\tjr      nz,strlib_str2int_digit",
			"\tinc     de",
			"\tcall    strlib_str2int_digit_loop",
			"\tex      de,hl",
			"\tld      hl,0",
			"\txor     a",
			"\tsbc     hl,de",
			"\tjr      strlib_str2int_done",
			"strlib_str2int_digit:",
			"\tcall    strlib_str2int_digit_loop",
			"strlib_str2int_done:",
			"\tld      b,h",
			"\tld      c,l",
			"\tpop     hl",
			"\tld      (hl),c",
			"\tinc     hl",
			"\tld      (hl),b",
			"\tret",
			"strlib_str2int_digit_loop:",
			"\tld      a,(de)",
			"\tsub     &30",
			"\tcp      10",
			"\tret     nc",
			"\tinc     de",
			"\tld      b,h",
			"\tld      c,l",
			"\tadd     hl,hl",
			"\tadd     hl,hl",
			"\tadd     hl,bc",
			"\tadd     hl,hl",
			"\tadd     a,l",
			"\tld      l,a",
			"\tjr      nc,strlib_str2int_digit_loop",
			"\tinc     h",
			"\tjr      strlib_str2int_digit_loop",
		},
	},
	"strlib_int2hex": {
		Name: "strlib_int2hex",
		Body: []string{
			"; HL = destination, A = characters (2 or 4), DE = number",
			"strlib_int2hex:",
			"\tpush    hl",
			"\tcp      2",
			"\tjr      z,strlib_int2hex_low",
			"\tld      a,d",
			"\tcall    strlib_a2hex",
			"strlib_int2hex_low:",
			"\tld      a,e",
			"\tcall    strlib_a2hex",
			"\tld      (hl),0",
			"\tpop     hl",
			"\tret",
			"strlib_a2hex:",
			"\tld      b,2",
			"\tld      c,a",
			"\trra",
			"\trra",
			"\trra",
			"\trra",
			"strlib_a2hex_conv:",
			"\tand     &0F",
			"\tcp      &0A",
			"\tjr      nc,strlib_a2hex_letter",
			"\tadd     a,&30",
			"\tjr      strlib_a2hex_store",
			"strlib_a2hex_letter:",
			"\tadd     a,&37",
			"strlib_a2hex_store:",
			"\tld      (hl),a",
			"\tinc     hl",
			"\tdec     b",
			"\tret     z",
			"\tld      a,c",
			"\tjr      strlib_a2hex_conv",
		},
	},
	"strlib_copy": {
		Name: "strlib_copy",
		Body: []string{
			"; HL = destination, DE = origin",
			"strlib_copy:",
			"\tld      a,(de)",
			"\tld      (hl),a",
			"\tinc     hl",
			"\tinc     de",
			"\tor      a",
			"\tjr      nz,strlib_copy",
			"\tret",
		},
	},
	"strlib_comp": {
		Name: "strlib_comp",
		Body: []string{
			"; DE = first string, HL = second string; HL = -1 when equal",
			"strlib_comp:",
			"\tld      a,(de)",
			"\tcp      (hl)",
			"\tjr      nz,strlib_comp_false",
			"\tor      (hl)",
			"\tjr      z,strlib_comp_true",
			"\tinc     hl",
			"\tinc     de",
			"\tjr      strlib_comp",
			"strlib_comp_true:",
			"\tld      hl,&FFFF",
			"\tret",
			"strlib_comp_false:",
			"\tld      hl,0",
			"\tret",
		},
	},
	"strlib_len": {
		Name: "strlib_len",
		Body: []string{
			"; HL = string; returns HL = length",
			"strlib_len:",
			"\tld      bc,0",
			"strlib_len_loop:",
			"\tld      a,(hl)",
			"\tor      a",
			"\tjr      z,strlib_len_done",
			"\tinc     hl",
			"\tinc     bc",
			"\tjr      strlib_len_loop",
			"strlib_len_done:",
			"\tld      h,b",
			"\tld      l,c",
			"\tret",
		},
	},
	"strlib_concat": {
		Name: "strlib_concat",
		Body: []string{
			"; DE = left, HL = right, BC = destination; returns HL = destination",
			"strlib_concat:",
			"\tpush    hl",
			"\tpush    bc",
			"\tld      h,b",
			"\tld      l,c",
			"strlib_concat_left:",
			"\tld      a,(de)",
			"\tor      a",
			"\tjr      z,strlib_concat_right",
			"\tld      (hl),a",
			"\tinc     hl",
			"\tinc     de",
			"\tjr      strlib_concat_left",
			"strlib_concat_right:",
			"\tpop     bc",
			"\tpop     de",
			"strlib_concat_copy:",
			"\tld      a,(de)",
			"\tld      (hl),a",
			"\tinc     hl",
			"\tinc     de",
			"\tor      a",
			"\tjr      nz,strlib_concat_copy",
			"\tld      h,b",
			"\tld      l,c",
			"\tret",
		},
	},
	"strlib_left": {
		Name: "strlib_left",
		Body: []string{
			"; DE = source, A = count, BC = destination; returns HL = destination",
			"strlib_left:",
			"\tpush    bc",
			"\tld      h,b",
			"\tld      l,c",
			"\tor      a",
			"\tjr      z,strlib_left_term",
			"\tld      b,a",
			"strlib_left_loop:",
			"\tld      a,(de)",
			"\tor      a",
			"\tjr      z,strlib_left_term",
			"\tld      (hl),a",
			"\tinc     hl",
			"\tinc     de",
			"\tdjnz    strlib_left_loop",
			"strlib_left_term:",
			"\tld      (hl),&00",
			"\tpop     hl",
			"\tret",
		},
	},
	"strlib_right": {
		Name: "strlib_right",
		Deps: []string{"strlib_len", "strlib_copy"},
		Body: []string{
			"; DE = source, A = count, BC = destination; returns HL = destination",
			"strlib_right:",
			"\tpush    bc",
			"\tpush    af",
			"\tpush    de",
			"\tex      de,hl",
			"\tcall    strlib_len",
			"\tpop     de",
			"\tpop     af",
			"\tld      b,0",
			"\tld      c,a",
			"\tor      a",
			"\tsbc     hl,bc",
			"\tjr      nc,strlib_right_skip",
			"\tld      hl,0",
			"strlib_right_skip:",
			"\tadd     hl,de",
			"\tex      de,hl",
			"\tpop     hl",
			"\tpush    hl",
			"\tcall    strlib_copy",
			"\tpop     hl",
			"\tret",
		},
	},
	"strlib_mid": {
		Name: "strlib_mid",
		Body: []string{
			"; DE = source, H = start (1-based), L = count, BC = destination",
			"; returns HL = destination",
			"strlib_mid:",
			"\tpush    bc",
			"\tld      c,l",
			"\tld      a,h",
			"\tor      a",
			"\tjr      z,strlib_mid_copy",
			"\tdec     a",
			"\tjr      z,strlib_mid_copy",
			"\tld      b,a",
			"strlib_mid_drop:",
			"\tld      a,(de)",
			"\tor      a",
			"\tjr      z,strlib_mid_copy",
			"\tinc     de",
			"\tdjnz    strlib_mid_drop",
			"strlib_mid_copy:",
			"\tpop     hl",
			"\tpush    hl",
			"\tld      a,c",
			"\tor      a",
			"\tjr      z,strlib_mid_term",
			"\tld      b,c",
			"strlib_mid_loop:",
			"\tld      a,(de)",
			"\tor      a",
			"\tjr      z,strlib_mid_term",
			"\tld      (hl),a",
			"\tinc     hl",
			"\tinc     de",
			"\tdjnz    strlib_mid_loop",
			"strlib_mid_term:",
			"\tld      (hl),&00",
			"\tpop     hl",
			"\tret",
		},
	},
	"strlib_inkey": {
		Name: "strlib_inkey",
		Body: []string{
			"; HL = destination buffer; empty string when no key is pending",
			"strlib_inkey:",
			"\tcall    " + fwKMReadChar + " ;KM_READ_CHAR",
			"\tjr      c,strlib_inkey_store",
			"\txor     a",
			"strlib_inkey_store:",
			"\tld      (hl),a",
			"\tinc     hl",
			"\tld      (hl),&00",
			"\tret",
		},
	},

	"inputlib_input": {
		Name: "inputlib_input",
		Deps: []string{"strlib_print_nl"},
		Data: []string{
			"__inputlib_question: db \"? \",&00",
			"__inputlib_inbuf: defs 256",
		},
		Body: []string{
			"; read one edited line from the keyboard into __inputlib_inbuf",
			"inputlib_input:",
			"\tcall    " + fwTxtCurEnable + " ;TXT_CUR_ENABLE",
			"\tcall    " + fwTxtCurOn + " ;TXT_CUR_ON",
			"\tld      hl,__inputlib_inbuf",
			"\tld      bc,0",
			"inputlib_input_key:",
			"\tcall    " + fwKMWaitKey + " ;KM_WAIT_KEY",
			"\tcp      127",
			"\tjr      nz,inputlib_input_enter",
			"\tld      a,b",
			"\tor      c",
			"\tjr      z,inputlib_input_key",
			"\tld      a,8",
			"\tcall    " + fwTxtOutput + " ;TXT_OUTPUT",
			"\tld      a,\" \"",
			"\tcall    " + fwTxtOutput + " ;TXT_OUTPUT",
			"\tld      a,8",
			"\tcall    " + fwTxtOutput + " ;TXT_OUTPUT",
			"\tdec     hl",
			"\tdec     bc",
			"\tjr      inputlib_input_key",
			"inputlib_input_enter:",
			"\tcp      13",
			"\tjr      z,inputlib_input_end",
			"\tcall    " + fwTxtOutput + " ;TXT_OUTPUT",
			"\tld      (hl),a",
			"\tinc     hl",
			"\tinc     bc",
			"\tjr      inputlib_input_key",
			"inputlib_input_end:",
			"\txor     a",
			"\tld      (hl),a",
			"\tcall    strlib_print_nl",
			"\tcall    " + fwTxtCurDisable + " ;TXT_CUR_DISABLE",
			"\tjp      " + fwTxtCurOff + " ;TXT_CUR_OFF",
		},
	},

	"reallib_copy": {
		Name: "reallib_copy",
		Body: []string{
			"; DE = destination, HL = source (5 bytes)",
			"reallib_copy:",
			"\tld      bc,5",
			"\tldir",
			"\tret",
		},
	},
	"reallib_int2real": {
		Name: "reallib_int2real",
		Body: []string{
			"; HL = 16-bit signed value, DE = address of the 5-byte destination",
			"reallib_int2real:",
			"\tpush    de",
			"\tex      de,hl",
			"\tcall    " + fwMathIntToReal + " ;MATH_INT_TO_REAL",
			"\tpop     hl",
			"\tret",
		},
	},
	"reallib_real2int": {
		Name: "reallib_real2int",
		Body: []string{
			"; HL = address of a real; returns HL = 16-bit signed value",
			"reallib_real2int:",
			"\tjp      " + fwMathRealToInt + " ;MATH_REAL_TO_INT",
		},
	},
	"reallib_int": {
		Name: "reallib_int",
		Deps: []string{"reallib_copy", "reallib_real2int"},
		Data: []string{"__reallib_intwork: defs 5"},
		Body: []string{
			"; HL = address of a real; returns HL = floor as a 16-bit value",
			"reallib_int:",
			"\tld      de,__reallib_intwork",
			"\tcall    reallib_copy",
			"\tld      hl,__reallib_intwork",
			"\tcall    " + fwMathRealInt + " ;MATH_REAL_INT",
			"\tld      hl,__reallib_intwork",
			"\tjp      reallib_real2int",
		},
	},
	"reallib_add": {
		Name: "reallib_add",
		Body: []string{
			"; HL = left, DE = right, BC = destination; all 5-byte reals",
			"reallib_add:",
			"\tpush    bc",
			"\tpush    de",
			"\tld      d,b",
			"\tld      e,c",
			"\tld      bc,5",
			"\tldir",
			"\tpop     de",
			"\tpop     hl",
			"\tjp      " + fwMathRealAdd + " ;MATH_REAL_ADD",
		},
	},
	"reallib_sub": {
		Name: "reallib_sub",
		Body: []string{
			"; HL = left, DE = right, BC = destination; all 5-byte reals",
			"reallib_sub:",
			"\tpush    bc",
			"\tpush    hl",
			"\tex      de,hl",
			"\tld      d,b",
			"\tld      e,c",
			"\tld      bc,5",
			"\tldir",
			"\tpop     de",
			"\tpop     hl",
			"\tjp      " + fwMathRealRSub + " ;MATH_REAL_REV_SUBS",
		},
	},
	"reallib_mul": {
		Name: "reallib_mul",
		Body: []string{
			"; HL = left, DE = right, BC = destination; all 5-byte reals",
			"reallib_mul:",
			"\tpush    bc",
			"\tpush    de",
			"\tld      d,b",
			"\tld      e,c",
			"\tld      bc,5",
			"\tldir",
			"\tpop     de",
			"\tpop     hl",
			"\tjp      " + fwMathRealMult + " ;MATH_REAL_MULT",
		},
	},
	"reallib_div": {
		Name: "reallib_div",
		Body: []string{
			"; HL = left, DE = right, BC = destination; all 5-byte reals",
			"reallib_div:",
			"\tpush    bc",
			"\tpush    de",
			"\tld      d,b",
			"\tld      e,c",
			"\tld      bc,5",
			"\tldir",
			"\tpop     de",
			"\tpop     hl",
			"\tjp      " + fwMathRealDiv + " ;MATH_REAL_DIV",
		},
	},
	"reallib_pow": {
		Name: "reallib_pow",
		Body: []string{
			"; HL = base, DE = exponent, BC = destination; all 5-byte reals",
			"reallib_pow:",
			"\tpush    bc",
			"\tpush    de",
			"\tld      d,b",
			"\tld      e,c",
			"\tld      bc,5",
			"\tldir",
			"\tpop     de",
			"\tpop     hl",
			"\tjp      " + fwMathRealPower + " ;MATH_REAL_POWER",
		},
	},
	"reallib_comp": {
		Name: "reallib_comp",
		Body: []string{
			"; HL = left, DE = right; A = 1, 0 or &FF for >, =, <",
			"reallib_comp:",
			"\tjp      " + fwMathRealComp + " ;MATH_REAL_COMP",
		},
	},
	"reallib_neg": {
		Name: "reallib_neg",
		Body: []string{
			"; HL = source, BC = destination",
			"reallib_neg:",
			"\tpush    bc",
			"\tld      d,b",
			"\tld      e,c",
			"\tld      bc,5",
			"\tldir",
			"\tpop     hl",
			"\tjp      " + fwMathRealNeg + " ;MATH_REAL_UMINUS",
		},
	},
	"reallib_abs": {
		Name: "reallib_abs",
		Body: []string{
			"; HL = source, BC = destination",
			"reallib_abs:",
			"\tpush    bc",
			"\tld      d,b",
			"\tld      e,c",
			"\tld      bc,5",
			"\tldir",
			"\tpop     hl",
			"\tpush    hl",
			"\tinc     hl",
			"\tinc     hl",
			"\tinc     hl",
			"\tres     7,(hl)",
			"\tpop     hl",
			"\tret",
		},
	},
	"reallib_real2str": {
		Name: "reallib_real2str",
		Deps: []string{"reallib_copy", "reallib_sub", "reallib_mul", "reallib_real2int", "strlib_int2str", "strlib_copy"},
		Data: []string{
			"__reallib_work: defs 5",
			"__reallib_frac: defs 5",
			"__reallib_tmp: defs 5",
			"__reallib_text: defs 16",
			"__reallib_ten: db &00,&00,&00,&20,&84",
		},
		Body: []string{
			"; HL = address of the real to format; returns HL = text buffer",
			"; renders sign, integer part and two fractional digits",
			"reallib_real2str:",
			"\tld      de,__reallib_frac",
			"\tpush    hl",
			"\tcall    reallib_copy",
			"\tpop     hl",
			"\tld      de,__reallib_work",
			"\tcall    reallib_copy",
			"\tld      hl,__reallib_work",
			"\tcall    " + fwMathRealFix + " ;MATH_REAL_FIX",
			"\tld      hl,__reallib_frac",
			"\tld      de,__reallib_work",
			"\tld      bc,__reallib_tmp",
			"\tcall    reallib_sub",
			"\tld      hl,__reallib_tmp",
			"\tinc     hl",
			"\tinc     hl",
			"\tinc     hl",
			"\tres     7,(hl)",
			"\tld      hl,__reallib_work",
			"\tcall    reallib_real2int",
			"\tcall    strlib_int2str",
			"\tex      de,hl",
			"\tld      hl,__reallib_text",
			"\tcall    strlib_copy",
			"\tdec     hl",
			"\tld      (hl),\".\"",
			"\tinc     hl",
			"\tld      b,2",
			"reallib_real2str_digit:",
			"\tpush    bc",
			"\tpush    hl",
			"\tld      hl,__reallib_tmp",
			"\tld      de,__reallib_ten",
			"\tld      bc,__reallib_tmp",
			"\tcall    reallib_mul",
			"\tld      hl,__reallib_tmp",
			"\tld      de,__reallib_work",
			"\tcall    reallib_copy",
			"\tld      hl,__reallib_work",
			"\tcall    " + fwMathRealFix + " ;MATH_REAL_FIX",
			"\tld      hl,__reallib_tmp",
			"\tld      de,__reallib_work",
			"\tld      bc,__reallib_frac",
			"\tcall    reallib_sub",
			"\tld      hl,__reallib_frac",
			"\tld      de,__reallib_tmp",
			"\tcall    reallib_copy",
			"\tld      hl,__reallib_work",
			"\tcall    reallib_real2int",
			"\tld      a,l",
			"\tor      &30",
			"\tpop     hl",
			"\tld      (hl),a",
			"\tinc     hl",
			"\tpop     bc",
			"\tdjnz    reallib_real2str_digit",
			"\tld      (hl),&00",
			"\tld      hl,__reallib_text",
			"\tret",
		},
	},

	"datalib_read_int": {
		Name: "datalib_read_int",
		Body: []string{
			"; HL = destination; reads the next DATA constant as an integer",
			"datalib_read_int:",
			"\tex      de,hl",
			"\tld      hl,(__datalib_ptr)",
			"\tinc     hl",
			"\tld      a,(hl)",
			"\tld      (de),a",
			"\tinc     hl",
			"\tinc     de",
			"\tld      a,(hl)",
			"\tld      (de),a",
			"\tinc     hl",
			"\tld      (__datalib_ptr),hl",
			"\tret",
		},
	},
	"datalib_read_real": {
		Name: "datalib_read_real",
		Body: []string{
			"; HL = destination; reads the next DATA constant as a real",
			"datalib_read_real:",
			"\tex      de,hl",
			"\tld      hl,(__datalib_ptr)",
			"\tinc     hl",
			"\tld      bc,5",
			"\tldir",
			"\tld      (__datalib_ptr),hl",
			"\tret",
		},
	},
	"datalib_read_str": {
		Name: "datalib_read_str",
		Body: []string{
			"; HL = destination; reads the next DATA constant as a string",
			"datalib_read_str:",
			"\tex      de,hl",
			"\tld      hl,(__datalib_ptr)",
			"\tinc     hl",
			"datalib_read_str_copy:",
			"\tld      a,(hl)",
			"\tld      (de),a",
			"\tinc     hl",
			"\tinc     de",
			"\tor      a",
			"\tjr      nz,datalib_read_str_copy",
			"\tld      (__datalib_ptr),hl",
			"\tret",
		},
	},

	"calllib_jphl": {
		Name: "calllib_jphl",
		Body: []string{
			"; indirect CALL: the target's ret returns past the call site",
			"calllib_jphl:",
			"\tjp      (hl)",
		},
	},
}

// libraryClosure expands a set of used routine names to its transitive
// dependency closure and returns it in emission order: dependencies first,
// ties broken by name. The traversal is deterministic.
func libraryClosure(used map[string]bool) []Routine {
	var order []Routine
	visited := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		r := runtimeLib[name]
		deps := append([]string(nil), r.Deps...)
		sort.Strings(deps)
		for _, d := range deps {
			visit(d)
		}
		order = append(order, r)
	}
	roots := make([]string, 0, len(used))
	for name := range used {
		roots = append(roots, name)
	}
	sort.Strings(roots)
	for _, name := range roots {
		visit(name)
	}
	return order
}
