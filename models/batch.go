package models

type StartBatchResponse struct {
	BatchId string `json:"batch_id"`
}

// AddDocumentRequest carries one recognized document. Fields is the raw
// recognizer output; alternatively DG1 may hold a hex-encoded MRZ data
// group readout. FreeText, when present, is scanned for labelled fields
// the recognizer does not structure.
type AddDocumentRequest struct {
	BatchId  string            `json:"batch_id"`
	Fields   map[string]string `json:"fields,omitempty"`
	DG1      string            `json:"dg1,omitempty"`
	FreeText string            `json:"free_text,omitempty"`
}

type AddDocumentResponse struct {
	Accepted       bool     `json:"accepted"`
	DocumentNumber string   `json:"document_number,omitempty"`
	Title          string   `json:"title,omitempty"`
	Age            int      `json:"age,omitempty"`
	Warning        *Warning `json:"warning,omitempty"`
}

type Warning struct {
	Kind           string `json:"kind"`
	DocumentNumber string `json:"document_number,omitempty"`
	Detail         string `json:"detail,omitempty"`
}

type BatchOutputRequest struct {
	BatchId string `json:"batch_id"`
	Carrier string `json:"carrier,omitempty"`
}

type BatchOutputResponse struct {
	NameLines     []string  `json:"name_lines"`
	DocumentLines []string  `json:"document_lines"`
	Text          string    `json:"text"`
	Warnings      []Warning `json:"warnings,omitempty"`
}
