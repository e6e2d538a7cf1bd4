package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// conversion rules
	RulInfo             Code = 1000
	RulBadPattern       Code = 1001
	RulSizeIsUnresolved Code = 1002
	RulUnknownAttribute Code = 1003

	// interfaces
	IfcInfo              Code = 2000
	IfcMultipleBases     Code = 2001
	IfcBaseNotFound      Code = 2002
	IfcUnsupportedMember Code = 2003

	// properties
	PrpInfo        Code = 3000
	PrpGetAfterPut Code = 3001
	PrpAccessorMix Code = 3002
	PrpArrayRetval Code = 3003

	// enums
	EnmInfo            Code = 4000
	EnmDuplicateMember Code = 4001
	EnmUnresolvedRef   Code = 4002

	// coclasses
	CclInfo        Code = 5000
	CclMissingBase Code = 5001
	CclMissingGuid Code = 5002

	// comments
	CmtInfo       Code = 6000
	CmtLoadFailed Code = 6001

	// I/O
	IOInfo           Code = 7000
	IOLoadFileError  Code = 7001
	IOReferenceGraph Code = 7002
	IOWriteFailed    Code = 7003

	ObsInfo    Code = 8000
	ObsTimings Code = 8001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:          "Unknown error",
		RulInfo:              "Conversion rule information",
		RulBadPattern:        "Invalid conversion rule pattern",
		RulSizeIsUnresolved:  "size_is names an unknown parameter",
		RulUnknownAttribute:  "Unrecognised attribute carried through",
		IfcInfo:              "Interface information",
		IfcMultipleBases:     "Only one base interface supported",
		IfcBaseNotFound:      "Base interface not found",
		IfcUnsupportedMember: "Unsupported base member kind",
		PrpInfo:              "Property information",
		PrpGetAfterPut:       "[propget] declared after [propput/propputref]",
		PrpAccessorMix:       "Both propput and propputref on one accessor",
		PrpArrayRetval:       "Array retval cannot be a return value",
		EnmInfo:              "Enum information",
		EnmDuplicateMember:   "Enum member defined in two enums",
		EnmUnresolvedRef:     "Enum reference left unqualified",
		CclInfo:              "CoClass information",
		CclMissingBase:       "CoClass without interfaces",
		CclMissingGuid:       "Primary interface has no recorded GUID",
		CmtInfo:              "Comment information",
		CmtLoadFailed:        "Comment table could not be loaded",
		IOInfo:               "I/O information",
		IOLoadFileError:      "I/O load file error",
		IOReferenceGraph:     "Referenced graph could not be read",
		IOWriteFailed:        "Output could not be written",
		ObsInfo:              "Observability information",
		ObsTimings:           "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("RUL%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("IFC%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PRP%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("ENM%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CCL%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("CMT%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 8000 && ic < 9000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
