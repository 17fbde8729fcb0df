package importtickets

const (
	EncodingPlain  = "plain"
	EncodingBase64 = "base64"
)

type Input struct {
	Content         string `json:"content"`
	ContentEncoding string `json:"contentEncoding,omitempty"`
	Format          string `json:"format,omitempty"`
	FileName        string `json:"fileName,omitempty"`
	AutoClassify    *bool  `json:"autoClassify,omitempty"`
}

type Output struct {
	Format            string   `json:"format"`
	TotalRecords      int      `json:"totalRecords"`
	SuccessfulImports int      `json:"successfulImports"`
	FailedImports     int      `json:"failedImports"`
	Errors            []string `json:"errors"`
}
