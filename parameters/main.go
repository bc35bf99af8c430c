package parameters

const (
	N_FEATURES     int     = 1
	HIDDEN_SIZE    int     = 512
	SEQ_LENGTH     int     = 5
	NUM_LAYERS     int     = 2
	EPOCHS         int     = 60
	LEARNING_RATE  float64 = 1e-3
	TEST_DATA_SIZE int     = 138
	LOG_INTERVAL   int     = 10
	RANDOM_SEED    int64   = 42

	// JHU CSSE cumulative confirmed cases, one row per region, one
	// column per date.
	DATA_URL string = "https://raw.githubusercontent.com/CSSEGISandData/COVID-19/master/csse_covid_19_data/csse_covid_19_time_series/time_series_covid19_confirmed_global.csv"
)
