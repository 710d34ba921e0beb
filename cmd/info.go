package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// SceneInfo loads a scene and prints a summary without rendering.
func SceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	sc, setup, err := buildScene(ctx)
	if err != nil {
		return err
	}

	deltaLights := 0
	for _, light := range sc.Lights() {
		if light.IsDelta() {
			deltaLights++
		}
	}
	box := sc.BoundingBox()

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Property", "Value"})
	table.Append([]string{"Instances", fmt.Sprintf("%d", sc.InstanceCount())})
	table.Append([]string{"Lights", fmt.Sprintf("%d (%d delta)", len(sc.Lights()), deltaLights)})
	table.Append([]string{"Bounds min", fmt.Sprintf("(%.3g, %.3g, %.3g)", box.Min.X, box.Min.Y, box.Min.Z)})
	table.Append([]string{"Bounds max", fmt.Sprintf("(%.3g, %.3g, %.3g)", box.Max.X, box.Max.Y, box.Max.Z)})
	table.Append([]string{"Camera eye", fmt.Sprintf("(%.3g, %.3g, %.3g)", setup.Eye.X, setup.Eye.Y, setup.Eye.Z)})
	table.Append([]string{"Camera fov", fmt.Sprintf("%.3g", setup.FovDeg)})
	table.Render()

	logger.Noticef("scene summary\n%s", buf.String())
	return nil
}
