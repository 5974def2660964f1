// Package acegrpc is a concrete native module exercising the gRPC/protobuf
// corner of SPEC_FULL.md's DOMAIN STACK: dial a server, load a .proto file
// with no generated Go code, and invoke or encode/decode messages
// dynamically.
//
// Grounded on the teacher's internal/evaluator/builtins_grpc.go
// (grpcConnect/grpcLoadProto/grpcInvoke/protoEncode/protoDecode built on
// github.com/jhump/protoreflect's protoparse+dynamic packages and
// google.golang.org/grpc's raw Invoke), re-keyed from the teacher's
// Object/Evaluator builtin contract to vmrt.Value/vmrt.Params — a heap
// instance's members stand in for the teacher's map-like Object, converted
// to and from a dynamic.Message field-by-field via the message's own
// FieldDescriptors instead of the teacher's untyped recursive conversion.
package acegrpc

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/ajmd17/ace-lang-sub001/internal/bytecode"
	"github.com/ajmd17/ace-lang-sub001/internal/vmrt"
	"github.com/ajmd17/ace-lang-sub001/pkg/ace"
)

func init() {
	ace.RegisterFactory("acegrpc", New)
}

// registry is this process's loaded .proto descriptors and open
// connections, indexed by caller-chosen handles (the teacher's own
// protoRegistry/sync.RWMutex pattern, widened to also track connections
// since natives have no Go-side Object type to stash a *grpc.ClientConn
// in other than vmrt.UserData).
type registry struct {
	mu    sync.RWMutex
	files map[string]*desc.FileDescriptor
	conns map[string]*grpc.ClientConn
}

func newRegistry() *registry {
	return &registry{
		files: make(map[string]*desc.FileDescriptor),
		conns: make(map[string]*grpc.ClientConn),
	}
}

// New builds the "acegrpc" native module: connect/close/loadProto/invoke/
// encode/decode, each a vmrt.NativeFunction over string/bytes/object
// arguments.
func New() *ace.Module {
	reg := newRegistry()
	m := ace.NewModule("acegrpc")

	m.Function("connect", func(p *vmrt.Params) error {
		target, err := argString(p, 0)
		if err != nil {
			return err
		}
		conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("acegrpc.connect: %w", err)
		}
		reg.mu.Lock()
		reg.conns[target] = conn
		reg.mu.Unlock()
		p.Result = vmrt.HeapPtr(p.VM.Heap.NewString(target))
		return nil
	})

	m.Function("close", func(p *vmrt.Params) error {
		target, err := argString(p, 0)
		if err != nil {
			return err
		}
		reg.mu.Lock()
		conn, ok := reg.conns[target]
		delete(reg.conns, target)
		reg.mu.Unlock()
		if ok && conn != nil {
			_ = conn.Close()
		}
		p.Result = vmrt.Null()
		return nil
	})

	m.Function("loadProto", func(p *vmrt.Params) error {
		path, err := argString(p, 0)
		if err != nil {
			return err
		}
		parser := protoparse.Parser{ImportPaths: []string{"."}}
		fds, err := parser.ParseFiles(path)
		if err != nil {
			return fmt.Errorf("acegrpc.loadProto: parsing %s: %w", path, err)
		}
		reg.mu.Lock()
		for _, fd := range fds {
			reg.files[fd.GetName()] = fd
		}
		reg.mu.Unlock()
		p.Result = vmrt.Null()
		return nil
	})

	m.Function("invoke", func(p *vmrt.Params) error {
		target, err := argString(p, 0)
		if err != nil {
			return err
		}
		method, err := argString(p, 1)
		if err != nil {
			return err
		}
		if len(p.Args) < 3 || p.Args[2].Kind != vmrt.KindHeapPointer {
			return fmt.Errorf("acegrpc.invoke: expected a request object as the third argument")
		}

		reg.mu.RLock()
		conn, ok := reg.conns[target]
		reg.mu.RUnlock()
		if !ok || conn == nil {
			return fmt.Errorf("acegrpc.invoke: no open connection to %q (call acegrpc.connect first)", target)
		}

		md, err := findMethod(reg, method)
		if err != nil {
			return err
		}

		reqMsg := dynamic.NewMessage(md.GetInputType())
		if err := objectToMessage(p.VM.Heap, p.Args[2], reqMsg); err != nil {
			return fmt.Errorf("acegrpc.invoke: building request: %w", err)
		}
		respMsg := dynamic.NewMessage(md.GetOutputType())

		path := method
		if path[0] != '/' {
			path = "/" + path
		}
		if err := conn.Invoke(context.Background(), path, reqMsg, respMsg); err != nil {
			return fmt.Errorf("acegrpc.invoke: rpc failed: %w", err)
		}

		result, err := messageToObject(p.VM.Heap, respMsg)
		if err != nil {
			return err
		}
		p.Result = result
		return nil
	})

	m.Function("encode", func(p *vmrt.Params) error {
		msgName, err := argString(p, 0)
		if err != nil {
			return err
		}
		if len(p.Args) < 2 || p.Args[1].Kind != vmrt.KindHeapPointer {
			return fmt.Errorf("acegrpc.encode: expected an object as the second argument")
		}
		md, err := findMessageType(reg, msgName)
		if err != nil {
			return err
		}
		msg := dynamic.NewMessage(md)
		if err := objectToMessage(p.VM.Heap, p.Args[1], msg); err != nil {
			return fmt.Errorf("acegrpc.encode: %w", err)
		}
		data, err := msg.Marshal()
		if err != nil {
			return fmt.Errorf("acegrpc.encode: marshal: %w", err)
		}
		arr := p.VM.Heap.NewArray(len(data))
		for i, b := range data {
			if err := p.VM.Heap.ArraySet(arr, i, vmrt.I32(int32(b))); err != nil {
				return err
			}
		}
		p.Result = vmrt.HeapPtr(arr)
		return nil
	})

	m.Function("decode", func(p *vmrt.Params) error {
		msgName, err := argString(p, 0)
		if err != nil {
			return err
		}
		if len(p.Args) < 2 || p.Args[1].Kind != vmrt.KindHeapPointer {
			return fmt.Errorf("acegrpc.decode: expected a byte array as the second argument")
		}
		data, err := bytesFromArray(p.VM.Heap, p.Args[1])
		if err != nil {
			return fmt.Errorf("acegrpc.decode: %w", err)
		}
		md, err := findMessageType(reg, msgName)
		if err != nil {
			return err
		}
		msg := dynamic.NewMessage(md)
		if err := msg.Unmarshal(data); err != nil {
			return fmt.Errorf("acegrpc.decode: unmarshal: %w", err)
		}
		result, err := messageToObject(p.VM.Heap, msg)
		if err != nil {
			return err
		}
		p.Result = result
		return nil
	})

	return m
}

func argString(p *vmrt.Params, i int) (string, error) {
	if i >= len(p.Args) || p.Args[i].Kind != vmrt.KindHeapPointer {
		return "", fmt.Errorf("acegrpc: argument %d must be a String", i)
	}
	s, ok := p.VM.Heap.String(p.Args[i].Heap)
	if !ok {
		return "", fmt.Errorf("acegrpc: argument %d is not a live String", i)
	}
	return s, nil
}

func bytesFromArray(h *vmrt.Heap, v vmrt.Value) ([]byte, error) {
	n, ok := h.ArrayLen(v.Heap)
	if !ok {
		return nil, fmt.Errorf("expected an Array of bytes")
	}
	out := make([]byte, n)
	for i := range out {
		elem, err := h.ArrayGet(v.Heap, i)
		if err != nil {
			return nil, err
		}
		out[i] = byte(elem.AsI32())
	}
	return out, nil
}

// findMethod locates "package.Service/Method" (or "package.Service.Method")
// across every loaded file descriptor.
func findMethod(reg *registry, methodPath string) (*desc.MethodDescriptor, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	serviceName, methodName, err := splitMethodPath(methodPath)
	if err != nil {
		return nil, err
	}
	for _, fd := range reg.files {
		for _, sd := range fd.GetServices() {
			if sd.GetFullyQualifiedName() == serviceName {
				if md := sd.FindMethodByName(methodName); md != nil {
					return md, nil
				}
			}
		}
	}
	return nil, fmt.Errorf("acegrpc: no loaded proto defines method %q", methodPath)
}

func findMessageType(reg *registry, name string) (*desc.MessageDescriptor, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	for _, fd := range reg.files {
		if md := fd.FindMessage(name); md != nil {
			return md, nil
		}
	}
	return nil, fmt.Errorf("acegrpc: no loaded proto defines message %q", name)
}

func splitMethodPath(path string) (service, method string, err error) {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '.' {
			return path[:i], path[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("acegrpc: malformed method path %q, expected pkg.Service/Method", path)
}

// objectToMessage copies a heap instance's members into msg field-by-field
// by name, the teacher's objectToDynamicMessage narrowed to the scalar
// field kinds spec.md's type system actually has (Int/Float/Boolean/
// String); a field the instance has no member for is left at its proto
// default.
func objectToMessage(h *vmrt.Heap, obj vmrt.Value, msg *dynamic.Message) error {
	names, ok := h.MemberNames(obj.Heap)
	if !ok {
		return fmt.Errorf("expected an object value")
	}
	for _, name := range names {
		fd := msg.GetMessageDescriptor().FindFieldByName(name)
		if fd == nil {
			continue
		}
		v, err := h.MemberByHash(obj.Heap, hashMemberName(h, obj, name))
		if err != nil {
			return err
		}
		goVal, err := valueToGo(h, fd.GetType(), v)
		if err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
		if err := msg.TrySetField(fd, goVal); err != nil {
			return fmt.Errorf("field %s: %w", name, err)
		}
	}
	return nil
}

// messageToObject builds a heap instance named after the message type,
// one member per populated field, converted back through valueFromGo.
func messageToObject(h *vmrt.Heap, msg *dynamic.Message) (vmrt.Value, error) {
	fields := msg.GetMessageDescriptor().GetFields()
	names := make([]string, len(fields))
	for i, fd := range fields {
		names[i] = fd.GetName()
	}
	handle := h.NewInstance(msg.GetMessageDescriptor().GetName(), names)
	for i, fd := range fields {
		goVal := msg.GetField(fd)
		v, err := valueFromGo(h, fd.GetType(), goVal)
		if err != nil {
			return vmrt.Value{}, fmt.Errorf("field %s: %w", fd.GetName(), err)
		}
		if err := h.SetMemberByIndex(handle, i, v); err != nil {
			return vmrt.Value{}, err
		}
	}
	return vmrt.HeapPtr(handle), nil
}

// valueToGo converts a vmrt.Value to the Go type dynamic.Message.TrySetField
// expects for fieldType, switching on the field's own descriptorpb type the
// way the teacher's objectToDynamicMessage does, rather than inferring a
// proto type purely from the Value's Kind (spec.md's Int is 64-bit but a
// proto int32 field still needs an actual int32).
func valueToGo(h *vmrt.Heap, fieldType descriptorpb.FieldDescriptorProto_Type, v vmrt.Value) (interface{}, error) {
	if v.Kind == vmrt.KindNone {
		return nil, nil
	}
	switch fieldType {
	case descriptorpb.FieldDescriptorProto_TYPE_INT32, descriptorpb.FieldDescriptorProto_TYPE_SINT32, descriptorpb.FieldDescriptorProto_TYPE_SFIXED32:
		return int32(asInt(v)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT64, descriptorpb.FieldDescriptorProto_TYPE_SINT64, descriptorpb.FieldDescriptorProto_TYPE_SFIXED64:
		return asInt(v), nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT32, descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return uint32(asInt(v)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_UINT64, descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return uint64(asInt(v)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return float32(asFloat(v)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return asFloat(v), nil
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		if v.Kind != vmrt.KindBool {
			return nil, fmt.Errorf("expected a Boolean, got %s", v.Kind)
		}
		return v.AsBool(), nil
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		if v.Kind != vmrt.KindHeapPointer {
			return nil, fmt.Errorf("expected a String, got %s", v.Kind)
		}
		s, ok := h.String(v.Heap)
		if !ok {
			return nil, fmt.Errorf("expected a live String heap value")
		}
		return s, nil
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		if v.Kind != vmrt.KindHeapPointer {
			return nil, fmt.Errorf("expected an Array of bytes, got %s", v.Kind)
		}
		return bytesFromArray(h, v)
	default:
		return nil, fmt.Errorf("unsupported proto field type %s", fieldType)
	}
}

func asInt(v vmrt.Value) int64 {
	if v.Kind == vmrt.KindI32 {
		return int64(v.AsI32())
	}
	return v.AsI64()
}

func asFloat(v vmrt.Value) float64 {
	if v.Kind == vmrt.KindF32 {
		return float64(v.AsF32())
	}
	return v.AsF64()
}

// valueFromGo is valueToGo's inverse, building the vmrt.Value a decoded
// proto field becomes as a heap instance's member.
func valueFromGo(h *vmrt.Heap, fieldType descriptorpb.FieldDescriptorProto_Type, goVal interface{}) (vmrt.Value, error) {
	if goVal == nil {
		return vmrt.Null(), nil
	}
	switch fieldType {
	case descriptorpb.FieldDescriptorProto_TYPE_INT32, descriptorpb.FieldDescriptorProto_TYPE_SINT32, descriptorpb.FieldDescriptorProto_TYPE_SFIXED32,
		descriptorpb.FieldDescriptorProto_TYPE_UINT32, descriptorpb.FieldDescriptorProto_TYPE_FIXED32:
		return vmrt.I32(toInt32(goVal)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_INT64, descriptorpb.FieldDescriptorProto_TYPE_SINT64, descriptorpb.FieldDescriptorProto_TYPE_SFIXED64,
		descriptorpb.FieldDescriptorProto_TYPE_UINT64, descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return vmrt.I64(toInt64(goVal)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return vmrt.F32(goVal.(float32)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return vmrt.F64(goVal.(float64)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return vmrt.Bool(goVal.(bool)), nil
	case descriptorpb.FieldDescriptorProto_TYPE_STRING:
		return vmrt.HeapPtr(h.NewString(goVal.(string))), nil
	case descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		data := goVal.([]byte)
		arr := h.NewArray(len(data))
		for i, b := range data {
			if err := h.ArraySet(arr, i, vmrt.I32(int32(b))); err != nil {
				return vmrt.Value{}, err
			}
		}
		return vmrt.HeapPtr(arr), nil
	default:
		return vmrt.Value{}, fmt.Errorf("unsupported proto field type %s", fieldType)
	}
}

func toInt32(v interface{}) int32 {
	switch x := v.(type) {
	case int32:
		return x
	case uint32:
		return int32(x)
	default:
		return 0
	}
}

func toInt64(v interface{}) int64 {
	switch x := v.(type) {
	case int64:
		return x
	case uint64:
		return int64(x)
	default:
		return 0
	}
}

// hashMemberName recomputes a member's FNV-1 hash the same way
// bytecode.HashMemberName does, since Heap only exposes member lookup by
// hash, not by name, from outside internal/vmrt.
func hashMemberName(h *vmrt.Heap, obj vmrt.Value, name string) uint32 {
	return bytecode.HashMemberName(name)
}
