package cloudwatch

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
)

// fakeLogs is an in-memory CloudWatch Logs with the same "already exists"
// behaviour as the real service.
type fakeLogs struct {
	groups    map[string]map[string][]types.InputLogEvent
	putErrs   map[int]error
	putOut    map[int]*cloudwatchlogs.PutLogEventsOutput
	createErr error
	puts      int
	pageSize  int
}

func newFakeLogs() *fakeLogs {
	return &fakeLogs{
		groups:  map[string]map[string][]types.InputLogEvent{},
		putErrs: map[int]error{},
		putOut:  map[int]*cloudwatchlogs.PutLogEventsOutput{},
	}
}

func alreadyExists(resource string) error {
	return &types.ResourceAlreadyExistsException{Message: aws.String(resource + " already exists")}
}

func (f *fakeLogs) CreateLogGroup(ctx context.Context, in *cloudwatchlogs.CreateLogGroupInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	name := aws.ToString(in.LogGroupName)
	if _, ok := f.groups[name]; ok {
		return nil, alreadyExists("log group " + name)
	}
	f.groups[name] = map[string][]types.InputLogEvent{}
	return &cloudwatchlogs.CreateLogGroupOutput{}, nil
}

func (f *fakeLogs) CreateLogStream(ctx context.Context, in *cloudwatchlogs.CreateLogStreamInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	group, ok := f.groups[aws.ToString(in.LogGroupName)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("log group does not exist")}
	}
	name := aws.ToString(in.LogStreamName)
	if _, ok := group[name]; ok {
		return nil, alreadyExists("log stream " + name)
	}
	group[name] = nil
	return &cloudwatchlogs.CreateLogStreamOutput{}, nil
}

func (f *fakeLogs) PutLogEvents(ctx context.Context, in *cloudwatchlogs.PutLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error) {
	f.puts++
	if err, ok := f.putErrs[f.puts]; ok {
		return nil, err
	}
	group, ok := f.groups[aws.ToString(in.LogGroupName)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("log group does not exist")}
	}
	name := aws.ToString(in.LogStreamName)
	if _, ok := group[name]; !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("log stream does not exist")}
	}
	if out, ok := f.putOut[f.puts]; ok {
		return out, nil
	}
	group[name] = append(group[name], in.LogEvents...)
	return &cloudwatchlogs.PutLogEventsOutput{}, nil
}

func (f *fakeLogs) GetLogEvents(ctx context.Context, in *cloudwatchlogs.GetLogEventsInput, _ ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.GetLogEventsOutput, error) {
	group, ok := f.groups[aws.ToString(in.LogGroupName)]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("log group does not exist")}
	}
	stored := group[aws.ToString(in.LogStreamName)]

	start := 0
	if in.NextToken != nil {
		n, err := strconv.Atoi(aws.ToString(in.NextToken))
		if err != nil {
			return nil, fmt.Errorf("bad token %q", aws.ToString(in.NextToken))
		}
		start = n
	}
	end := len(stored)
	if f.pageSize > 0 && start+f.pageSize < end {
		end = start + f.pageSize
	}

	out := &cloudwatchlogs.GetLogEventsOutput{NextForwardToken: aws.String(strconv.Itoa(end))}
	for _, e := range stored[start:end] {
		out.Events = append(out.Events, types.OutputLogEvent{Timestamp: e.Timestamp, Message: e.Message})
	}
	return out, nil
}

func (f *fakeLogs) messages(group, stream string) []string {
	var out []string
	for _, e := range f.groups[group][stream] {
		out = append(out, aws.ToString(e.Message))
	}
	return out
}
