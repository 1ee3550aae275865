package docker

import (
	"context"
	"sort"

	"github.com/moby/moby/client"
	"golang.org/x/sync/errgroup"

	"github.com/pyaillet/doggy/internal/types"
)

// Labels set by docker compose on every resource it creates.
const (
	LabelComposeProject    = types.LabelComposeProject
	LabelComposeService    = "com.docker.compose.service"
	LabelComposeWorkingDir = "com.docker.compose.project.working_dir"
	LabelComposeConfig     = "com.docker.compose.project.config_files"
	LabelComposeEnvFile    = "com.docker.compose.project.environment_file"
)

// composeResources holds the raw listings a project is reconstructed from.
type composeResources struct {
	containers    []types.ContainerSummary
	volumes       []types.VolumeSummary
	volumeLabels  map[string]map[string]string
	networks      []types.NetworkSummary
	networkLabels map[string]map[string]string
}

// ListComposeProjects groups containers, volumes and networks by their
// compose project label.
func (c *Client) ListComposeProjects(ctx context.Context) ([]types.Compose, error) {
	res, err := c.fetchComposeResources(ctx, types.Filter{Key: "label", Value: LabelComposeProject})
	if err != nil {
		return nil, err
	}
	return groupProjects(res), nil
}

// GetComposeProject returns the services, volumes and networks of project.
func (c *Client) GetComposeProject(ctx context.Context, project string) (types.ComposeDetails, error) {
	res, err := c.fetchComposeResources(ctx, types.LabelFilter(LabelComposeProject, project))
	if err != nil {
		return types.ComposeDetails{}, err
	}
	return projectDetails(project, res), nil
}

// fetchComposeResources lists the three resource kinds concurrently.
func (c *Client) fetchComposeResources(ctx context.Context, filter types.Filter) (composeResources, error) {
	var res composeResources
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		containers, err := c.ListContainers(gctx, true, filter)
		res.containers = containers
		return err
	})
	g.Go(func() error {
		ctx, cancel := c.WithCustomTimeout(gctx, TimeoutQuick)
		defer cancel()
		result, err := c.cli.VolumeList(ctx, client.VolumeListOptions{Filters: resourceFilters(filter, "name")})
		if err != nil {
			return wrapError(err, "list volumes", TimeoutQuick)
		}
		res.volumeLabels = make(map[string]map[string]string, len(result.Items))
		for _, vol := range result.Items {
			res.volumes = append(res.volumes, parseVolume(vol))
			res.volumeLabels[vol.Name] = vol.Labels
		}
		return nil
	})
	g.Go(func() error {
		ctx, cancel := c.WithCustomTimeout(gctx, TimeoutQuick)
		defer cancel()
		result, err := c.cli.NetworkList(ctx, client.NetworkListOptions{Filters: resourceFilters(filter, "name")})
		if err != nil {
			return wrapError(err, "list networks", TimeoutQuick)
		}
		res.networkLabels = make(map[string]map[string]string, len(result.Items))
		for _, net := range result.Items {
			res.networks = append(res.networks, parseNetwork(net))
			res.networkLabels[net.ID] = net.Labels
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return composeResources{}, err
	}
	return res, nil
}

func groupProjects(res composeResources) []types.Compose {
	projects := make(map[string]*types.Compose)
	get := func(name string) *types.Compose {
		p, ok := projects[name]
		if !ok {
			p = &types.Compose{Project: name}
			projects[name] = p
		}
		return p
	}

	for _, ctr := range res.containers {
		if name, ok := ctr.Labels[LabelComposeProject]; ok {
			get(name).Containers++
		}
	}
	for _, vol := range res.volumes {
		if name, ok := res.volumeLabels[vol.ID][LabelComposeProject]; ok {
			get(name).Volumes++
		}
	}
	for _, net := range res.networks {
		if name, ok := res.networkLabels[net.ID][LabelComposeProject]; ok {
			get(name).Networks++
		}
	}

	result := make([]types.Compose, 0, len(projects))
	for _, p := range projects {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Project < result[j].Project })
	return result
}

func projectDetails(project string, res composeResources) types.ComposeDetails {
	details := types.ComposeDetails{
		Project:  project,
		Services: make(map[string][]types.ContainerSummary),
	}
	for _, ctr := range res.containers {
		if ctr.Labels[LabelComposeProject] != project {
			continue
		}
		if details.WorkingDir == "" {
			details.WorkingDir = ctr.Labels[LabelComposeWorkingDir]
			details.ConfigFiles = ctr.Labels[LabelComposeConfig]
			details.EnvironmentFile = ctr.Labels[LabelComposeEnvFile]
		}
		service := ctr.Labels[LabelComposeService]
		details.Services[service] = append(details.Services[service], ctr)
	}
	for _, vol := range res.volumes {
		if res.volumeLabels[vol.ID][LabelComposeProject] == project {
			details.Volumes = append(details.Volumes, vol)
		}
	}
	for _, net := range res.networks {
		if res.networkLabels[net.ID][LabelComposeProject] == project {
			details.Networks = append(details.Networks, net)
		}
	}
	return details
}
