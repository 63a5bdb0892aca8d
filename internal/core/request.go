package core

import "strings"

type Mode int

const (
	ModeKeyword Mode = iota + 1
	ModePartNumber
	ModeBatch
)

func (m Mode) String() string {
	switch m {
	case ModeKeyword:
		return "keyword"
	case ModePartNumber:
		return "part_number"
	case ModeBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// SearchRequest 一次命令执行的查询，只有 Mode 对应的字段有效
type SearchRequest struct {
	Mode       Mode
	Keyword    string
	Limit      int
	PartNumber string
	InputCSV   string
}

// NewSearchRequest 校验参数组合：keyword / part-number / input-csv 三者必须恰好给一个。
// 纯内存操作，不碰网络和文件。
func NewSearchRequest(keyword, partNumber, inputCSV string, count int) (SearchRequest, error) {
	keyword = strings.TrimSpace(keyword)
	partNumber = strings.TrimSpace(partNumber)
	inputCSV = strings.TrimSpace(inputCSV)

	set := 0
	for _, v := range []string{keyword, partNumber, inputCSV} {
		if v != "" {
			set++
		}
	}
	switch {
	case set == 0:
		return SearchRequest{}, &UsageError{Msg: "either --keyword, --part-number, or --input-csv must be provided"}
	case set > 1:
		return SearchRequest{}, &UsageError{Msg: "only one of --keyword, --part-number, or --input-csv may be provided"}
	}

	switch {
	case keyword != "":
		if count <= 0 {
			return SearchRequest{}, &UsageError{Msg: "--count must be a positive number"}
		}
		return SearchRequest{Mode: ModeKeyword, Keyword: keyword, Limit: count}, nil
	case partNumber != "":
		return SearchRequest{Mode: ModePartNumber, PartNumber: partNumber}, nil
	default:
		return SearchRequest{Mode: ModeBatch, InputCSV: inputCSV}, nil
	}
}
