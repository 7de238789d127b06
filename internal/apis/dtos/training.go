package dtos

type TrainRequest struct {
	Question      string `json:"question"`
	SQL           string `json:"sql"`
	DDL           string `json:"ddl"`
	Documentation string `json:"documentation"`
}

type BulkTrainResponse struct {
	Count int `json:"count"`
}
