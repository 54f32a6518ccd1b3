package domain

// Settings configures the fitting tools: worker pool size, multi-start
// trials and the external optimizer method. Read from YAML by the
// infrastructure layer.
type Settings struct {
	Workers   int     `yaml:"workers"`
	Trials    int     `yaml:"trials"`
	Jitter    float64 `yaml:"jitter"`
	Method    string  `yaml:"method"`
	Tolerance float64 `yaml:"tolerance"`
	LogLevel  string  `yaml:"log_level"`
	LogFile   string  `yaml:"log_file"`
}

// OptimizationMethod selects the algorithm of the external optimization
// engine.
type OptimizationMethod int

const (
	MethodNelderMead OptimizationMethod = iota
	MethodGradientDescent
	MethodSimulatedAnnealing
)

func (s *Settings) GetOptMethod() OptimizationMethod {
	switch s.Method {

	case "nelder-mead":
		return MethodNelderMead
	case "gradient":
		return MethodGradientDescent
	case "simann":
		return MethodSimulatedAnnealing

	default:
		return MethodNelderMead
	}
}
