package digikey

// DigiKey Product Information v3 的原始响应结构。
// 可选字段用指针，以区分 "没有这个字段" 和 "字段为空"。

type PidVid struct {
	ParameterID int    `json:"ParameterId"`
	ValueID     string `json:"ValueId"`
	Parameter   string `json:"Parameter"`
	Value       string `json:"Value"`
}

type Product struct {
	DigiKeyPartNumber      string  `json:"DigiKeyPartNumber"`
	ManufacturerPartNumber string  `json:"ManufacturerPartNumber"`
	Manufacturer           *PidVid `json:"Manufacturer"`
	ProductDescription     string  `json:"ProductDescription"`
	QuantityAvailable      int     `json:"QuantityAvailable"`
	ProductURL             string  `json:"ProductUrl"`
	PrimaryDatasheet       string  `json:"PrimaryDatasheet"`

	Category            *PidVid  `json:"Category,omitempty"`
	DetailedDescription *string  `json:"DetailedDescription,omitempty"`
	PrimaryPhoto        *string  `json:"PrimaryPhoto,omitempty"`
	UnitPrice           *float64 `json:"UnitPrice,omitempty"`
}

type KeywordSearchRequest struct {
	Keywords            string `json:"Keywords"`
	RecordCount         int    `json:"RecordCount"`
	RecordStartPosition int    `json:"RecordStartPosition,omitempty"`
}

type KeywordSearchResponse struct {
	Products      []*Product `json:"Products"`
	ProductsCount int        `json:"ProductsCount"`
}

type BatchProductDetailsRequest struct {
	Products []string `json:"Products"`
}

type BatchProductDetailsResponse struct {
	ProductDetails []*Product `json:"ProductDetails"`
	Errors         []string   `json:"Errors"`
}

type errorResponse struct {
	StatusCode   int    `json:"StatusCode"`
	ErrorMessage string `json:"ErrorMessage"`
	ErrorDetails string `json:"ErrorDetails"`
	RequestID    string `json:"RequestId"`
}
