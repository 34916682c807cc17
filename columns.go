package bench

// Column names written by the microbenchmark and macrobenchmark CSV
// scripts.
const (
	ColList         = "list" // "<datastructure>-<algorithm>"
	ColMaxKey       = "max_key"
	ColWorkers      = "wrk_threads"
	ColUpdateRate   = "u_rate"
	ColRQRate       = "rq_rate"
	ColRQSize       = "rq_size"
	ColRQThreads    = "rq_threads"
	ColThroughput   = "tot_thruput"
	ColUThroughput  = "u_thruput"
	ColRQThroughput = "rq_thruput"
	ColRQLatency    = "rq_latency"

	ColThreads       = "nthreads"
	ColIxThroughput  = "ixThroughput"
	ColRQAlg         = "rqalg"
	ColDataStructure = "datastructure"
)

// ListName returns the value of the list column for an algorithm run on a
// data structure.
func ListName(ds, algo string) string {
	return ds + "-" + algo
}
