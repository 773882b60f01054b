/*
SPDX-License-Identifier: Apache-2.0

Copyright 2025 The Sentry Dashboard Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package ruleconfig loads extraction-rule fixtures from textproto files.
// The message schema is assembled in code and parsed through dynamicpb, so
// fixtures need no generated proto bindings:
//
//	rules {
//	  span_attribute: "span.duration"
//	  unit: "millisecond"
//	  aggregates: "count"
//	  aggregates: "p95"
//	  tags: "http.method"
//	  conditions { id: 1 query: "op:http.server" }
//	}
package ruleconfig

import (
	"fmt"
	"os"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/keradus/sentry/core/aggregates"
	"github.com/keradus/sentry/core/rules"
)

// Loader parses textproto rule fixtures.
type Loader struct {
	setDesc protoreflect.MessageDescriptor
}

// NewLoader creates a Loader with the rule schema registered.
func NewLoader() (*Loader, error) {
	file, err := protodesc.NewFile(ruleFileDescriptor(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rule descriptor: %w", err)
	}
	setDesc := file.Messages().ByName("ExtractionRuleSet")
	if setDesc == nil {
		return nil, fmt.Errorf("ExtractionRuleSet message missing from descriptor")
	}
	return &Loader{setDesc: setDesc}, nil
}

// ruleFileDescriptor assembles the fixture schema. Field numbers are part
// of the fixture format and must not be reused.
func ruleFileDescriptor() *descriptorpb.FileDescriptorProto {
	strField := func(name string, number int32, repeated bool) *descriptorpb.FieldDescriptorProto {
		label := descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
		if repeated {
			label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
		}
		return &descriptorpb.FieldDescriptorProto{
			Name:   proto.String(name),
			Number: proto.Int32(number),
			Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
			Label:  label.Enum(),
		}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("ruleconfig/rules.proto"),
		Package: proto.String("sentry.ruleconfig"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Condition"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{
						Name:   proto.String("id"),
						Number: proto.Int32(1),
						Type:   descriptorpb.FieldDescriptorProto_TYPE_INT64.Enum(),
						Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
					},
					strField("query", 2, false),
				},
			},
			{
				Name: proto.String("ExtractionRule"),
				Field: []*descriptorpb.FieldDescriptorProto{
					strField("span_attribute", 1, false),
					strField("unit", 2, false),
					strField("aggregates", 3, true),
					strField("tags", 4, true),
					{
						Name:     proto.String("conditions"),
						Number:   proto.Int32(5),
						Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
						Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
						TypeName: proto.String(".sentry.ruleconfig.Condition"),
					},
				},
			},
			{
				Name: proto.String("ExtractionRuleSet"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{
						Name:     proto.String("rules"),
						Number:   proto.Int32(1),
						Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
						Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
						TypeName: proto.String(".sentry.ruleconfig.ExtractionRule"),
					},
				},
			},
		},
	}
}

// Parse parses a textproto rule set. Aggregate identifiers in fixtures are
// external input and go through the boundary decode, so fixtures written
// against a newer backend keep loading; rules that end up without any
// known aggregate are rejected.
func (l *Loader) Parse(data []byte) ([]*rules.ExtractionRule, error) {
	msg := dynamicpb.NewMessage(l.setDesc)
	if err := prototext.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to parse textproto: %w", err)
	}

	rulesField := l.setDesc.Fields().ByName("rules")
	list := msg.Get(rulesField).List()

	result := make([]*rules.ExtractionRule, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		rule, err := ruleFromMessage(list.Get(i).Message())
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		result = append(result, rule)
	}
	return result, nil
}

// LoadFile parses a textproto rule set from a file.
func (l *Loader) LoadFile(path string) ([]*rules.ExtractionRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule fixture: %w", err)
	}
	return l.Parse(data)
}

func ruleFromMessage(msg protoreflect.Message) (*rules.ExtractionRule, error) {
	fields := msg.Descriptor().Fields()

	rule := &rules.ExtractionRule{
		SpanAttribute: msg.Get(fields.ByName("span_attribute")).String(),
		Unit:          msg.Get(fields.ByName("unit")).String(),
	}

	aggList := msg.Get(fields.ByName("aggregates")).List()
	rawValues := make([]string, 0, aggList.Len())
	for i := 0; i < aggList.Len(); i++ {
		rawValues = append(rawValues, aggList.Get(i).String())
	}
	rule.Aggregations = aggregates.ParseRawAggregations(rawValues)

	tagList := msg.Get(fields.ByName("tags")).List()
	for i := 0; i < tagList.Len(); i++ {
		rule.Tags = append(rule.Tags, tagList.Get(i).String())
	}

	condList := msg.Get(fields.ByName("conditions")).List()
	for i := 0; i < condList.Len(); i++ {
		condMsg := condList.Get(i).Message()
		condFields := condMsg.Descriptor().Fields()
		rule.Conditions = append(rule.Conditions, rules.Condition{
			ID:    condMsg.Get(condFields.ByName("id")).Int(),
			Query: condMsg.Get(condFields.ByName("query")).String(),
		})
	}

	if result := rules.Validate(rule); result.HasErrors() {
		return nil, fmt.Errorf("fixture rule for %q failed validation: %v", rule.SpanAttribute, result.FieldErrors)
	}
	return rule, nil
}
