package config

type WorkerKeyStruct struct {
	PersistActivityQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistActivityQueue: "activity_log_queue",
}
