package constants

const (
	// Initial environmental reading
	InitialTemperature  = 28.4
	InitialHumidity     = 62.0
	InitialSoilMoisture = 45.0
	InitialLight        = 840.0

	// Alert thresholds
	HeatThreshold    = 31.0
	CoolingThreshold = 22.0
	SoilThreshold    = 30.0

	// Random walk step widths (full range, centred on zero)
	TemperatureStep = 0.4
	SoilStep        = 0.8
	HumidityStep    = 1.0
	LightStep       = 20.0
)
