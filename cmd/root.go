package cmd

import (
	"fmt"

	"github.com/jsphweid/scaletree/constants"
	"github.com/jsphweid/scaletree/db"
	"github.com/jsphweid/scaletree/diag"
	"github.com/jsphweid/scaletree/engine"
	"github.com/jsphweid/scaletree/logger"
	"github.com/jsphweid/scaletree/model"
	"github.com/jsphweid/scaletree/project"
	"github.com/jsphweid/scaletree/transpose"
	"github.com/spf13/cobra"
)

var (
	projectPath string
	projectID   string
	log         = logger.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "scaletree",
	Short: "Resolves scale relative patterns into MIDI pitches",
	Long: `scaletree resolves notes written against a tree of scales, moved
around by poses, into concrete MIDI pitches. Projects are read from a
JSON file or from DynamoDB.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&projectPath, "project", "", "project file (default $PROJECT_PATH)")
	rootCmd.PersistentFlags().StringVar(&projectID, "project-id", "", "load the project from DynamoDB instead of a file")
}

func initConfig() {
	constants.LoadEnv()
	log = logger.New(constants.GetLogLevel(), constants.GetLogFormat())
	if projectPath == "" {
		projectPath = constants.GetProjectPath()
	}
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func loadProject() (model.Project, error) {
	if projectID != "" {
		return db.GetProject(projectID)
	}
	return project.Load(projectPath)
}

func saveProject(p model.Project) error {
	if projectID != "" {
		return db.PutProject(p)
	}
	return project.Save(projectPath, p)
}

func loadEngine() (*engine.Engine, error) {
	p, err := loadProject()
	if err != nil {
		return nil, err
	}
	return engine.New(p, log)
}

func printWarnings(warnings diag.Warnings) {
	for _, w := range warnings.Dedup().Strings() {
		fmt.Printf("warning: %v\n", w)
	}
}

// keyFor is the key named by tonic and mode, or the plain major key on
// fallback's pitch class when tonic is empty.
func keyFor(tonic string, mode string, fallback int) (transpose.Key, error) {
	if tonic == "" {
		m, err := transpose.ParseMode(mode)
		if err != nil {
			return transpose.Key{}, err
		}
		return transpose.KeyFor(fallback, m, false), nil
	}
	return transpose.ParseKey(tonic, mode)
}

func names(pitches []int, k transpose.Key) []string {
	res := make([]string, 0, len(pitches))
	for _, p := range pitches {
		res = append(res, transpose.Name(p, k))
	}
	return res
}
