package renderer

import (
	_ "embed"
	"fmt"
	"math"
	"runtime"
	"unsafe"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/riverbed/scene"
	"github.com/pthm-cable/riverbed/systems"
)

//go:embed shaders/surface.vs
var surfaceVS string

//go:embed shaders/surface.fs
var surfaceFS string

// Mesh vertex buffer slots, as laid out by UploadMesh.
const (
	bufferPositions = 0
	bufferNormals   = 2
	bufferColors    = 3
)

// SurfaceRenderer draws a systems.SurfaceMesh with the lit water shader.
// The GPU buffers read straight from the mesh's slices, which stay pinned
// until Unload.
type SurfaceRenderer struct {
	src       *systems.SurfaceMesh
	mesh      rl.Mesh
	material  rl.Material
	shader    rl.Shader
	transform rl.Matrix
	pinner    runtime.Pinner

	lightDirLoc int32
	ambientLoc  int32
	edgeFadeLoc int32

	uploadedAt  float64
	initialized bool
}

// NewSurfaceRenderer creates a renderer for m lying offset units below the
// camera target.
func NewSurfaceRenderer(m *systems.SurfaceMesh, offset float32) *SurfaceRenderer {
	// The grid is built in the xy plane with z up; stand it on the ground.
	transform := rl.MatrixMultiply(rl.MatrixRotateX(-math.Pi/2), rl.MatrixTranslate(0, offset, 0))
	return &SurfaceRenderer{src: m, transform: transform}
}

// Init uploads the mesh and compiles the shader. Must be called after the
// raylib window is created.
func (r *SurfaceRenderer) Init() error {
	if r.initialized {
		return nil
	}

	r.shader = rl.LoadShaderFromMemory(surfaceVS, surfaceFS)
	if !rl.IsShaderValid(r.shader) {
		return fmt.Errorf("%w: surface shader failed to compile", scene.ErrSurfaceUnavailable)
	}
	r.lightDirLoc = rl.GetShaderLocation(r.shader, "lightDir")
	r.ambientLoc = rl.GetShaderLocation(r.shader, "ambient")
	r.edgeFadeLoc = rl.GetShaderLocation(r.shader, "edgeFade")
	rl.SetShaderValue(r.shader, r.lightDirLoc, []float32{-0.4, -1, -0.3}, rl.ShaderUniformVec3)
	rl.SetShaderValue(r.shader, r.ambientLoc, []float32{0.55}, rl.ShaderUniformFloat)
	rl.SetShaderValue(r.shader, r.edgeFadeLoc, []float32{0.08}, rl.ShaderUniformFloat)

	vertices := r.src.Vertices()
	normals := r.src.Normals()
	texcoords := r.src.Texcoords()
	colors := r.src.Colors()
	indices := r.src.Indices()

	r.pinner.Pin(&vertices[0])
	r.pinner.Pin(&normals[0])
	r.pinner.Pin(&texcoords[0])
	r.pinner.Pin(&colors[0])
	r.pinner.Pin(&indices[0])

	r.mesh = rl.Mesh{
		VertexCount:   int32(r.src.VertexCount()),
		TriangleCount: int32(r.src.TriangleCount()),
		Vertices:      &vertices[0],
		Normals:       &normals[0],
		Texcoords:     &texcoords[0],
		Colors:        &colors[0],
		Indices:       &indices[0],
	}
	rl.UploadMesh(&r.mesh, true)
	if r.mesh.VaoID == 0 {
		r.pinner.Unpin()
		rl.UnloadShader(r.shader)
		return fmt.Errorf("%w: mesh upload failed", scene.ErrSurfaceUnavailable)
	}

	r.material = rl.LoadMaterialDefault()
	r.material.Shader = r.shader

	r.uploadedAt = r.src.Elapsed()
	r.initialized = true
	return nil
}

// Sync pushes the mesh's current positions, normals and colors to the GPU.
// Nothing is uploaded if the mesh has not been updated since the last call.
func (r *SurfaceRenderer) Sync() {
	if !r.initialized || r.src.Elapsed() == r.uploadedAt {
		return
	}
	rl.UpdateMeshBuffer(r.mesh, bufferPositions, floatBytes(r.src.Vertices()), 0)
	rl.UpdateMeshBuffer(r.mesh, bufferNormals, floatBytes(r.src.Normals()), 0)
	rl.UpdateMeshBuffer(r.mesh, bufferColors, r.src.Colors(), 0)
	r.uploadedAt = r.src.Elapsed()
}

// Draw renders the surface. Must be called inside BeginMode3D.
func (r *SurfaceRenderer) Draw() {
	if !r.initialized {
		return
	}
	rl.DrawMesh(r.mesh, r.material, r.transform)
}

// Ready reports whether the GPU resources are loaded.
func (r *SurfaceRenderer) Ready() bool { return r.initialized }

// Unload frees the GPU mesh and shader.
func (r *SurfaceRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadMesh(&r.mesh)
	// Unloads r.shader too; the default texture is left to raylib.
	rl.UnloadMaterial(r.material)
	r.pinner.Unpin()
	r.mesh = rl.Mesh{}
	r.initialized = false
}

// floatBytes reinterprets a float32 slice as bytes for buffer upload.
func floatBytes(v []float32) []byte {
	if len(v) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}
