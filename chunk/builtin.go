package chunk

// BuiltinDefinitions returns the registration set for the standard
// PNG chunk types. Multiplicity and ordering metadata follow the PNG
// specification's chunk ordering rules: IHDR opens and IEND closes
// the stream (enforced as the document layer's head/terminal policy,
// not declared here), the color-space chunks precede PLTE, and
// palette-dependent chunks sit between PLTE and IDAT.
func BuiltinDefinitions() []Definition {
	return []Definition{
		{Code: TypeIHDR, New: func() Chunk { return &IHDR{} }},
		{Code: TypePLTE, New: func() Chunk { return &PLTE{} },
			MustPrecede: []TypeCode{TypeIDAT}},
		{Code: TypeIDAT, New: func() Chunk { return &IDAT{} },
			AllowMultiple: true},
		{Code: TypeIEND, New: func() Chunk { return &IEND{} }},

		{Code: TypeCHRM, New: func() Chunk { return &CHRM{} },
			MustPrecede: []TypeCode{TypePLTE, TypeIDAT}},
		{Code: TypeGAMA, New: func() Chunk { return &GAMA{} },
			MustPrecede: []TypeCode{TypePLTE, TypeIDAT}},
		{Code: TypeICCP, New: func() Chunk { return &ICCP{} },
			MustPrecede: []TypeCode{TypePLTE, TypeIDAT}},
		{Code: TypeSBIT, New: func() Chunk { return &SBIT{} },
			MustPrecede: []TypeCode{TypePLTE, TypeIDAT}},
		{Code: TypeSRGB, New: func() Chunk { return &SRGB{} },
			MustPrecede: []TypeCode{TypePLTE, TypeIDAT}},

		{Code: TypeBKGD, New: func() Chunk { return &BKGD{} },
			MustFollow:  []Constraint{{Code: TypePLTE}},
			MustPrecede: []TypeCode{TypeIDAT}},
		{Code: TypeHIST, New: func() Chunk { return &HIST{} },
			MustFollow:  []Constraint{{Code: TypePLTE}},
			MustPrecede: []TypeCode{TypeIDAT}},
		{Code: TypeTRNS, New: func() Chunk { return &TRNS{} },
			MustFollow:  []Constraint{{Code: TypePLTE}},
			MustPrecede: []TypeCode{TypeIDAT}},

		{Code: TypePHYS, New: func() Chunk { return &PHYS{} },
			MustPrecede: []TypeCode{TypeIDAT}},
		{Code: TypeSPLT, New: func() Chunk { return &SPLT{} },
			AllowMultiple: true,
			MustPrecede:   []TypeCode{TypeIDAT}},

		{Code: TypeTIME, New: func() Chunk { return &TIME{} }},
		{Code: TypeTEXT, New: func() Chunk { return &TEXT{} },
			AllowMultiple: true},
		{Code: TypeZTXT, New: func() Chunk { return &ZTXT{} },
			AllowMultiple: true},
		{Code: TypeITXT, New: func() Chunk { return &ITXT{} },
			AllowMultiple: true},
	}
}
