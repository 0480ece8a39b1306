package style

// 默认样式名
const (
	DefaultName      = "Default"
	EmptyName        = "Empty"
	TitleName        = "Title"
	DescriptionName  = "Description"
	HeaderName       = "Header"
	HeaderCenterName = "Header, center"
	RowName          = "Row"
	RowStringName    = "Row, string"
	RowTextName      = "Row, text"
	RowIntegerName   = "Row, integer"
	RowDecimalName   = "Row, decimal"
	RowDateName      = "Row, date"
	RowDatetimeName  = "Row, datetime"
	RowYearName      = "Row, year"
	RowTimeName      = "Row, time"
)

// Defaults 表格默认使用的样式
func Defaults() []Declaration {
	return []Declaration{
		Style{Name: DefaultName, Format: Format{
			Alignment: Alignment{Vertical: String("top")},
		}},
		Extension{Base: DefaultName, Name: EmptyName},
		Extension{Base: DefaultName, Name: TitleName, Format: Format{
			Font: Font{Size: Float(20)},
		}},
		Extension{Base: DefaultName, Name: DescriptionName, Format: Format{
			Font: Font{Color: String("FF777777")},
		}},
		Extension{Base: DefaultName, Name: HeaderName, Format: Format{
			Font:   Font{Bold: Bool(true), Color: String("FFFFFFFF")},
			Fill:   Solid("FF1A1F43"),
			Border: Box("thin", "FF1A1F43"),
		}},
		Extension{Base: HeaderName, Name: HeaderCenterName, Format: Format{
			Alignment: Alignment{Horizontal: String("center")},
		}},
		Extension{Base: DefaultName, Name: RowName},
		Extension{Base: RowName, Name: RowStringName, Format: Format{NumberFormat: "@"}},
		Extension{Base: RowStringName, Name: RowTextName, Format: Format{
			Alignment: Alignment{WrapText: Bool(true)},
		}},
		Extension{Base: RowName, Name: RowIntegerName, Format: Format{NumberFormat: "#,##0"}},
		Extension{Base: RowName, Name: RowDecimalName, Format: Format{NumberFormat: "0.00"}},
		Extension{Base: RowName, Name: RowDateName, Format: Format{
			NumberFormat: "yyyy-mm-dd",
			Alignment:    Alignment{Horizontal: String("center")},
		}},
		Extension{Base: RowDateName, Name: RowDatetimeName, Format: Format{NumberFormat: "yyyy-mm-dd h:mm"}},
		Extension{Base: RowDateName, Name: RowYearName, Format: Format{NumberFormat: "yyyy"}},
		Extension{Base: RowDateName, Name: RowTimeName, Format: Format{NumberFormat: "h:mm"}},
	}
}

// NewDefaultSet 默认样式加上自定义样式，自定义样式与默认样式同名时替换默认样式
func NewDefaultSet(extra ...Declaration) (*Set, error) {
	replaced := make(map[string]bool, len(extra))
	for _, d := range extra {
		replaced[d.StyleName()] = true
	}
	c := NewCascade()
	for _, d := range Defaults() {
		if replaced[d.StyleName()] {
			continue
		}
		if err := c.Declare(d); err != nil {
			return nil, err
		}
	}
	if err := c.Declare(extra...); err != nil {
		return nil, err
	}
	return c.Resolve()
}
