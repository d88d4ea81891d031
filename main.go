package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/b0tShaman/neuro-mlp/data"
	. "github.com/b0tShaman/neuro-mlp/ml"
)

const (
	inputFeatures  = 5
	outputFeatures = 1
)

type student struct {
	features    []float64
	description string
}

var demoStudents = []student{
	{[]float64{4.0, 6.5, 0.7, 72, 0.4}, "studied 4h, slept 6.5h, difficulty 0.7, quiz 72, stress 0.4"},
	{[]float64{2.0, 8.0, 0.3, 85, 0.2}, "studied 2h, slept 8h, difficulty 0.3, quiz 85, stress 0.2"},
	{[]float64{1.0, 5.0, 0.9, 50, 0.8}, "studied 1h, slept 5h, difficulty 0.9, quiz 50, stress 0.8"},
}

// -------- MAIN -------- //
func main() {
	dataPath := flag.String("data", "assets/study_time.csv", "CSV with 5 feature columns and the study hours")
	configPath := flag.String("config", "assets/training.yaml", "YAML training config")
	seed := flag.Uint64("seed", 42, "Seed for weights, split and shuffles (0 = random)")
	ratio := flag.Float64("split", 0.8, "Share of samples used for training")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :6021")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	// 1. Load Data
	fmt.Println("Loading dataset...")
	ds, err := data.LoadCSVFile(*dataPath, inputFeatures, outputFeatures, data.MissingSkip)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dataPath).Msg("could not load dataset")
	}
	fmt.Printf("Loaded %d samples with %d features.\n", ds.Len(), inputFeatures)

	// 2. Normalize
	normalizer := &data.MinMaxNormalizer{}
	if err := normalizer.Fit(ds.Inputs, ds.Expected); err != nil {
		log.Fatal().Err(err).Msg("could not fit normalizer")
	}
	inputs, err := normalizer.NormalizeInputs(ds.Inputs)
	if err != nil {
		log.Fatal().Err(err).Msg("could not normalize inputs")
	}
	expected, err := normalizer.NormalizeOutputs(ds.Expected)
	if err != nil {
		log.Fatal().Err(err).Msg("could not normalize outputs")
	}

	// 3. Split
	var splitRng *rand.Rand
	if *seed != 0 {
		splitRng = rand.New(NewSource(*seed))
	} else {
		splitRng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	train, test, err := data.Split(inputs, expected, *ratio, splitRng)
	if err != nil {
		log.Fatal().Err(err).Msg("could not split dataset")
	}
	fmt.Printf("Train samples: %d, Test samples: %d\n", train.Len(), test.Len())

	// 4. Config
	cfg, err := LoadTrainingConfigFile(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *configPath).Msg("could not load training config")
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	// 5. Model
	var hiddenInit, outputInit Initializer
	if *seed != 0 {
		hiddenInit = He(NewSource(*seed + 1))
		outputInit = He(NewSource(*seed + 2))
	}
	nn, err := Build(LossMSE,
		Input(inputFeatures),
		Dense(8, Activation(ActRelu), WithInitializer(hiddenInit)),
		Dense(outputFeatures, Activation(ActLinear), WithInitializer(outputInit)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("could not build network")
	}
	fmt.Println("Architecture: 5 -> 8 (relu) -> 1 (linear)")

	metrics := NewMetrics("mlp")
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatal().Err(err).Msg("could not register metrics")
	}
	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr)
	}

	trainer, err := NewTrainer(nn, cfg, WithMetrics(metrics))
	if err != nil {
		log.Fatal().Err(err).Msg("invalid training config")
	}

	// 6. Train
	fmt.Println("Training...")
	history, err := trainer.Train(train.Inputs, train.Expected)
	if err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}
	fmt.Println(asciigraph.Plot(history,
		asciigraph.Height(12),
		asciigraph.Width(72),
		asciigraph.Caption("average training loss per epoch"),
	))

	// 7. Evaluate
	if test.Len() > 0 {
		testLoss, err := trainer.Evaluate(test.Inputs, test.Expected)
		if err != nil {
			log.Fatal().Err(err).Msg("evaluation failed")
		}
		fmt.Printf("\nTest Loss: %.6f\n\n", testLoss)
	}

	// 8. Demo Predictions
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Student", "Profile", "Recommended hours"})
	for i, s := range demoStudents {
		hours, err := recommend(nn, normalizer, s.features)
		if err != nil {
			log.Fatal().Err(err).Int("student", i+1).Msg("prediction failed")
		}
		table.Append([]string{strconv.Itoa(i + 1), s.description, strconv.FormatFloat(hours, 'f', 1, 64)})
	}
	table.Render()
}

// recommend returns the predicted study time in hours for raw features.
func recommend(nn *NeuralNetwork, normalizer *data.MinMaxNormalizer, features []float64) (float64, error) {
	in, err := normalizer.NormalizeInput(features)
	if err != nil {
		return 0, err
	}
	out, err := nn.Predict(in)
	if err != nil {
		return 0, err
	}
	return normalizer.DenormalizeOutputValue(out[0], 0)
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}
